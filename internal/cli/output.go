package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/aretw0/switchyard/internal/i18n"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by the listing commands.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("76")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// PrintSummary reports the outcome of a create run.
func PrintSummary(w io.Writer, rec *domain.ProjectRecord) {
	if rec == nil {
		return
	}
	fmt.Fprintln(w)
	if rec.Status == domain.StatusCreated {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("%s created in %s", rec.Name, rec.Directory)))
	} else {
		fmt.Fprintln(w, failStyle.Render(fmt.Sprintf("%s failed at %s", rec.Name, i18n.T("project.creation.task."+rec.FailedAction))))
	}
	fmt.Fprintln(w, keyStyle.Render("record "+rec.ID))
}

// PrintRecord writes one record in the given format.
func PrintRecord(w io.Writer, rec *domain.ProjectRecord, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(rec)
	case FormatText, "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	rows := [][2]string{
		{"id", rec.ID},
		{"kind", string(rec.Kind)},
		{"name", rec.Name},
		{"directory", rec.Directory},
		{"group", rec.Group},
		{"artifact", rec.ArtifactID},
		{"mod id", rec.ModID},
		{"minecraft", rec.MinecraftVersion},
		{"loader", rec.LoaderVersion},
		{"mdk", rec.MdkVersion},
		{"license", rec.License},
		{"status", string(rec.Status)},
		{"failed at", rec.FailedAction},
		{"created", rec.CreatedAt.Format("2006-01-02 15:04:05 MST")},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", keyStyle.Render(fmt.Sprintf("%-10s", r[0])), r[1])
	}
	return nil
}

// LoadRecords loads every stored record, newest first. Records that vanish between
// listing and loading are skipped.
func (a *App) LoadRecords(ctx context.Context) ([]*domain.ProjectRecord, error) {
	ids, err := a.Sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]*domain.ProjectRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := a.Sessions.Load(ctx, id)
		if errors.Is(err, domain.ErrProjectNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	slices.SortFunc(records, func(x, y *domain.ProjectRecord) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
	return records, nil
}

// PrintRecords writes a listing in the given format.
func PrintRecords(w io.Writer, records []*domain.ProjectRecord, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(records)
	case FormatText, "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, keyStyle.Render("No projects recorded."))
		return nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(keyStyle).
		Headers("ID", "KIND", "NAME", "MINECRAFT", "STATUS", "CREATED")
	for _, rec := range records {
		t.Row(
			rec.ID,
			string(rec.Kind),
			rec.Name,
			rec.MinecraftVersion,
			string(rec.Status),
			rec.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}
