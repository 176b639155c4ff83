package session

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// loaderKeys lists, in priority order, the answers that may carry the loader version.
var loaderKeys = []string{"loader_version", "fabric_loader_version"}

func newRecordID() string {
	return uuid.NewString()
}

// NewRecord summarizes a creation run. Answers keeps every plain value the wizard
// collected; wizard bookkeeping such as choice option lists is dropped and values with a String method are
// stored as text so every store backend can persist them.
func NewRecord(kind domain.ProjectKind, pctx *domain.ProjectContext, runErr error) *domain.ProjectRecord {
	answers := portableAnswers(pctx.Data)

	rec := &domain.ProjectRecord{}
	if err := decodeRecord(answers, rec); err != nil {
		// Unreachable for portable answers; keep what decoded.
		rec.FailedAction = fmt.Sprintf("record: %v", err)
	}

	rec.Kind = kind
	rec.Directory = pctx.ProjectDir
	rec.Answers = answers
	if rec.LoaderVersion == "" {
		for _, k := range loaderKeys {
			if v, ok := answers[k].(string); ok && v != "" {
				rec.LoaderVersion = v
				break
			}
		}
	}

	rec.Status = domain.StatusCreated
	if runErr != nil {
		rec.Status = domain.StatusFailed
		var ae *domain.ActionError
		if errors.As(runErr, &ae) {
			rec.FailedAction = ae.ActionID
		}
	}
	return rec
}

func portableAnswers(s *domain.Store) map[string]any {
	out := make(map[string]any, s.Len())
	for _, k := range s.Keys() {
		if transient(k) {
			continue
		}
		v, _ := s.Value(k)
		switch tv := v.(type) {
		case nil:
			continue
		case string, bool, int, int64, float64:
			out[k] = tv
		case fmt.Stringer:
			out[k] = tv.String()
		default:
			out[k] = fmt.Sprint(tv)
		}
	}
	return out
}

func transient(key string) bool {
	for _, suffix := range domain.TransientSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

func decodeRecord(answers map[string]any, rec *domain.ProjectRecord) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           rec,
		DecodeHook:       stringerHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(answers)
}

// stringerHook decodes values with a String method into string fields.
func stringerHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if s, ok := data.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return data, nil
}
