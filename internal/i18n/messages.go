// Package i18n resolves the translation keys used by wizard steps and creation actions.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var english = map[string]string{
	"project.creation.project_details.title":      "Project details",
	"project.creation.project_name":               "Project name",
	"project.creation.project_name.info":          "Shown in the IDE and used to derive the mod id.",
	"project.creation.project_location":           "Location",
	"project.creation.project_location.info":      "Parent directory; the project is created in a sub-directory named after the project.",
	"project.creation.maven_coordinates.title":    "Maven coordinates",
	"project.creation.group_id":                   "Group id",
	"project.creation.group_id.info":              "Reverse domain name, for example com.example.",
	"project.creation.artifact_id":                "Artifact id",
	"project.creation.artifact_id.info":           "Lowercase name of the built jar.",
	"project.creation.version":                    "Version",
	"project.creation.version.info":               "Initial version of the mod.",
	"project.creation.minecraft_version.title":    "Minecraft version",
	"project.creation.minecraft_version":          "Minecraft version",
	"project.creation.minecraft_version.info":     "Game version the mod targets.",
	"project.creation.mapping_channel.title":      "Mappings",
	"project.creation.mapping_channel":            "Mapping channel",
	"project.creation.mapping_channel.info":       "Names used for decompiled game code.",
	"project.creation.mapping_version.title":      "Mapping version",
	"project.creation.mapping_version":            "Mapping version",
	"project.creation.mapping_version.info":       "Release of the selected mapping channel.",
	"project.creation.neo.title":                  "NeoForge",
	"project.creation.forge.title":                "Forge",
	"project.creation.loader_version":             "Loader version",
	"project.creation.loader_version.info":        "Mod loader build for the selected game version.",
	"project.creation.fabric_loader.title":        "Fabric Loader",
	"project.creation.fabric_loader_version":      "Fabric Loader version",
	"project.creation.fabric_loader_version.info": "Stable builds are listed first.",
	"project.creation.fabric_api.title":           "Fabric API",
	"project.creation.fabric_api_version":         "Fabric API version",
	"project.creation.fabric_api_version.info":    "Leave empty to build without Fabric API.",
	"project.creation.mod_details.title":          "Mod details",
	"project.creation.mod_id":                     "Mod id",
	"project.creation.mod_id.info":                "Lowercase letters, digits and underscores.",
	"project.creation.mod_name":                   "Mod name",
	"project.creation.mod_name.info":              "Display name of the mod.",
	"project.creation.main_class":                 "Main class",
	"project.creation.main_class.info":            "Name of the mod entry point class.",
	"project.creation.license.title":              "License",
	"project.creation.license":                    "License",
	"project.creation.license.info":               "SPDX identifier written to the project metadata.",
	"project.creation.license_custom.title":       "Custom license",
	"project.creation.license_custom":             "License name",
	"project.creation.license_custom.info":        "Written verbatim to the project metadata.",
	"project.creation.git.title":                  "Version control",
	"project.creation.init_git":                   "Initialize a git repository",
	"project.creation.init_git.info":              "Runs git init in the project directory.",
	"project.creation.access_widener.title":       "Access widener",
	"project.creation.use_access_widener":         "Use an access widener",
	"project.creation.use_access_widener.info":    "Opens up game classes, methods and fields to the mod.",
	"project.creation.access_widener_path":        "Access widener file",
	"project.creation.access_widener_path.info":   "Relative to src/main/resources.",
	"project.creation.split_sources.title":        "Source sets",
	"project.creation.split_sources":              "Split client and common sources",
	"project.creation.split_sources.info":         "Keeps client-only code in its own source set.",
	"project.creation.optional_details.title":     "Optional details",
	"project.creation.author":                     "Author",
	"project.creation.author.info":                "Credited in the mod metadata.",
	"project.creation.description":                "Description",
	"project.creation.description.info":           "Short summary of the mod.",
	"project.creation.issues_url":                 "Issues URL",
	"project.creation.issues_url.info":            "Where players report bugs.",
	"project.creation.homepage_url":               "Homepage URL",
	"project.creation.homepage_url.info":          "Project website.",
	"project.creation.sources_url":                "Sources URL",
	"project.creation.sources_url.info":           "Public source repository.",

	"parchment": "Parchment",
	"mojmap":    "Official Mojang mappings",
	"yarn":      "Yarn",

	"project.creation.task.create_directory":         "Creating project directory",
	"project.creation.task.download_neoforge_mdk":    "Downloading NeoForge MDK",
	"project.creation.task.download_forge_mdk":       "Downloading Forge MDK",
	"project.creation.task.download_fabric_template": "Downloading Fabric example mod",
	"project.creation.task.extract_mdk":              "Extracting MDK",
	"project.creation.task.update_gradle_properties": "Updating gradle.properties",
	"project.creation.task.init_git":                 "Initializing git repository",
	"project.creation.task.write_project_record":     "Recording project",
}

var printer = newPrinter()

func newPrinter() *message.Printer {
	b := catalog.NewBuilder()
	for key, msg := range english {
		// Messages are plain text; a failure here means a malformed literal above.
		if err := b.SetString(language.English, key, msg); err != nil {
			panic(err)
		}
	}
	return message.NewPrinter(language.English, message.Catalog(b))
}

// T returns the English text for key, or key itself when no message is registered.
func T(key string) string {
	return printer.Sprintf(key)
}

// Known reports whether key has a registered message.
func Known(key string) bool {
	_, ok := english[key]
	return ok
}
