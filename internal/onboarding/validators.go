package onboarding

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxNameLength  = 64
	maxModIDLength = 64
)

var (
	groupIDPattern    = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)*$`)
	artifactIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
	versionPattern    = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z.+_-]*$`)
	modIDPattern      = regexp.MustCompile(`^[a-z][a-z0-9_]{1,63}$`)
	mainClassPattern  = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	nonAlnum          = regexp.MustCompile(`[^a-z0-9]+`)
)

var errMultiline = errors.New("must be a single line")

// ValidateProjectName accepts names usable as a directory name on every platform.
func ValidateProjectName(s string) error {
	if s == "" {
		return errors.New("project name is required")
	}
	if len(s) > maxNameLength {
		return fmt.Errorf("must be at most %d characters", maxNameLength)
	}
	if strings.ContainsAny(s, `<>:"/\|?*`) {
		return errors.New(`must not contain any of < > : " / \ | ? *`)
	}
	if strings.HasSuffix(s, ".") {
		return errors.New("must not end with a dot")
	}
	return nil
}

// ValidateLocation accepts any single-line path. Whether it exists is checked when
// the step is confirmed.
func ValidateLocation(s string) error {
	if strings.ContainsAny(s, "\n\x00") {
		return errMultiline
	}
	return nil
}

func ValidateGroupID(s string) error {
	if !groupIDPattern.MatchString(s) {
		return errors.New("must be a dot separated list of Java identifiers, like com.example")
	}
	return nil
}

func ValidateArtifactID(s string) error {
	if !artifactIDPattern.MatchString(s) {
		return errors.New("must start with a lowercase letter or digit and contain only a-z, 0-9, '.', '_' and '-'")
	}
	return nil
}

func ValidateVersion(s string) error {
	if !versionPattern.MatchString(s) {
		return errors.New("must not contain spaces or special characters")
	}
	return nil
}

// ValidateModID follows the loader rules: 2 to 64 characters, lowercase letters,
// digits and underscores, starting with a letter.
func ValidateModID(s string) error {
	if !modIDPattern.MatchString(s) {
		return fmt.Errorf("must be 2-%d lowercase letters, digits or underscores, starting with a letter", maxModIDLength)
	}
	return nil
}

func ValidateModName(s string) error {
	if strings.ContainsAny(s, "\n\r") {
		return errMultiline
	}
	if len(s) > maxNameLength {
		return fmt.Errorf("must be at most %d characters", maxNameLength)
	}
	return nil
}

func ValidateMainClass(s string) error {
	if !mainClassPattern.MatchString(s) {
		return errors.New("must be a valid Java class name")
	}
	return nil
}

// ValidateSingleLine rejects text spanning several lines. Empty text is accepted.
func ValidateSingleLine(s string) error {
	if strings.ContainsAny(s, "\n\r") {
		return errMultiline
	}
	return nil
}

// ValidateURL accepts an empty string or an absolute http(s) URL.
func ValidateURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}
	return nil
}

// ArtifactIDFromName derives a maven artifact id: "My Cool Mod" becomes "my-cool-mod".
func ArtifactIDFromName(name string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// ModIDFromName derives a mod id: "My Cool Mod" becomes "my_cool_mod".
func ModIDFromName(name string) string {
	id := strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if id == "" {
		return ""
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "mod_" + id
	}
	if len(id) > maxModIDLength {
		id = strings.TrimRight(id[:maxModIDLength], "_")
	}
	return id
}

// MainClassFromName derives a class name: "my cool-mod" becomes "MyCoolMod".
func MainClassFromName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	class := b.String()
	if class != "" && unicode.IsDigit(rune(class[0])) {
		class = "Mod" + class
	}
	return class
}
