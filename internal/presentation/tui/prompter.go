package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/switchyard/internal/i18n"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// Commands understood at any field prompt.
const (
	CommandBack   = ":back"
	CommandCancel = ":cancel"
)

// DefaultOptionsWait bounds how long a choice waits for its background listing.
const DefaultOptionsWait = 15 * time.Second

// Prompter asks for each field of a step on a line based terminal.
type Prompter struct {
	out         io.Writer
	lines       <-chan string
	render      func(string) string
	optionsWait time.Duration
}

// PrompterOption configures a Prompter.
type PrompterOption func(*Prompter)

// WithMarkdown renders field help through render, e.g. the one from NewRenderer.
func WithMarkdown(render func(string) string) PrompterOption {
	return func(p *Prompter) {
		p.render = render
	}
}

// WithOptionsWait changes how long a choice without options waits for them.
func WithOptionsWait(d time.Duration) PrompterOption {
	return func(p *Prompter) {
		p.optionsWait = d
	}
}

// NewPrompter reads answers from in and writes prompts to out. Reading happens on a
// background goroutine that ends with in.
func NewPrompter(in io.Reader, out io.Writer, opts ...PrompterOption) *Prompter {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	p := &Prompter{
		out:         out,
		lines:       lines,
		render:      plain,
		optionsWait: DefaultOptionsWait,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prompt implements ports.Prompter. Empty input keeps the shown value.
func (p *Prompter) Prompt(ctx context.Context, req ports.PromptRequest) (ports.PromptResponse, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, headerStyle.Render(fmt.Sprintf("[%d/%d] %s", req.Index, req.Total, i18n.T(req.Title))))
	if req.CanGoBack {
		fmt.Fprintln(p.out, mutedStyle.Render("Type "+CommandBack+" to return to the previous step, "+CommandCancel+" to quit."))
	}

	values := maps.Clone(req.Values)
	if values == nil {
		values = make(map[string]string)
	}
	options := maps.Clone(req.Options)
	if options == nil {
		options = make(map[string][]string)
	}

	for _, f := range req.Fields {
		drain(req.Changes, values, options)
		if f.Kind == domain.FieldChoice && len(options[f.Key]) == 0 {
			fmt.Fprintln(p.out, mutedStyle.Render("Loading "+strings.ToLower(i18n.T(f.Label))+"..."))
			if err := p.awaitOptions(ctx, req.Changes, f.Key, values, options); err != nil {
				return ports.PromptResponse{}, err
			}
		}

		p.describe(f, values[f.Key], options[f.Key], req.Problems[f.Key])

		text, decision, err := p.ask(ctx, f)
		if err != nil {
			return ports.PromptResponse{}, err
		}
		if decision != ports.DecisionNext {
			return ports.PromptResponse{Decision: decision}, nil
		}
		if text == "" {
			continue
		}
		values[f.Key] = resolveAnswer(f, text, options[f.Key])
	}
	return ports.PromptResponse{Decision: ports.DecisionNext, Values: values}, nil
}

func (p *Prompter) describe(f domain.Field, current string, opts []string, problem string) {
	fmt.Fprintln(p.out)
	label := i18n.T(f.Label)
	if f.Required {
		label += " *"
	}
	fmt.Fprintln(p.out, labelStyle.Render(label))
	if i18n.Known(f.Info) {
		fmt.Fprintln(p.out, mutedStyle.Render(p.render(i18n.T(f.Info))))
	}
	if problem != "" {
		fmt.Fprintln(p.out, problemStyle.Render("✗ "+problem))
	}
	for i, o := range opts {
		marker := " "
		if o == current {
			marker = successStyle.Render("●")
		}
		fmt.Fprintf(p.out, "  %s %2d) %s\n", marker, i+1, display(f, o))
	}

	hint := current
	switch f.Kind {
	case domain.FieldChoice:
		hint = display(f, current)
	case domain.FieldToggle:
		hint = "y/n, " + yesNo(current)
	case domain.FieldTextArea:
		fmt.Fprintln(p.out, mutedStyle.Render("End with a line containing a single '.'"))
	}
	if hint != "" {
		fmt.Fprintf(p.out, "%s ", mutedStyle.Render("["+hint+"]"))
	}
	fmt.Fprint(p.out, "> ")
}

// ask reads one answer. Text areas read until a line holding a single dot.
func (p *Prompter) ask(ctx context.Context, f domain.Field) (string, ports.Decision, error) {
	line, err := p.readLine(ctx)
	if err != nil {
		return "", ports.DecisionCancel, err
	}
	switch strings.TrimSpace(line) {
	case CommandBack:
		return "", ports.DecisionBack, nil
	case CommandCancel:
		return "", ports.DecisionCancel, nil
	}
	if f.Kind != domain.FieldTextArea || strings.TrimSpace(line) == "" {
		return strings.TrimSpace(line), ports.DecisionNext, nil
	}

	text := []string{line}
	for {
		next, err := p.readLine(ctx)
		if err != nil {
			return "", ports.DecisionCancel, err
		}
		if strings.TrimSpace(next) == "." {
			return strings.Join(text, "\n"), ports.DecisionNext, nil
		}
		text = append(text, next)
	}
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", domain.ErrWizardCancelled
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// awaitOptions applies changes until key has options, the wait elapses or the step
// is left. A timeout is not an error: the user may still type a value.
func (p *Prompter) awaitOptions(ctx context.Context, changes <-chan domain.FieldChange, key string, values map[string]string, options map[string][]string) error {
	timeout := time.NewTimer(p.optionsWait)
	defer timeout.Stop()
	for {
		select {
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			applyChange(c, values, options)
			if c.Field == key && len(c.Options) > 0 {
				return nil
			}
		case <-timeout.C:
			fmt.Fprintln(p.out, problemStyle.Render("No options could be loaded."))
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func drain(changes <-chan domain.FieldChange, values map[string]string, options map[string][]string) {
	for {
		select {
		case c, ok := <-changes:
			if !ok {
				return
			}
			applyChange(c, values, options)
		default:
			return
		}
	}
}

func applyChange(c domain.FieldChange, values map[string]string, options map[string][]string) {
	values[c.Field] = c.Value
	if c.Options != nil {
		options[c.Field] = c.Options
	}
}

// resolveAnswer maps list numbers, translated labels and yes/no to stored text.
func resolveAnswer(f domain.Field, text string, opts []string) string {
	switch f.Kind {
	case domain.FieldChoice:
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(opts) {
			return opts[n-1]
		}
		for _, o := range opts {
			if strings.EqualFold(display(f, o), text) {
				return o
			}
		}
	case domain.FieldToggle:
		switch strings.ToLower(text) {
		case "y", "yes":
			return "true"
		case "n", "no":
			return "false"
		}
	}
	return text
}

func display(f domain.Field, option string) string {
	if f.Translate {
		return i18n.T(option)
	}
	return option
}

func yesNo(v string) string {
	if b, err := strconv.ParseBool(v); err == nil && b {
		return "yes"
	}
	return "no"
}
