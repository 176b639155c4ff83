package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	hooks := LogHooks(logger)
	ctx := context.Background()

	hooks.OnStepEnter(ctx, &domain.StepEvent{StepID: "license", Index: 3})
	hooks.OnActionFinish(ctx, &domain.ActionEvent{ActionID: "extract_mdk"})
	assert.Empty(t, buf.String(), "successful transitions are debug output")

	hooks.OnActionFinish(ctx, &domain.ActionEvent{ActionID: "init_git", Err: errors.New("boom")})
	hooks.OnFetchFailed(ctx, &domain.FetchEvent{StepID: "neo", Name: "loader_versions", Err: errors.New("offline")})

	out := buf.String()
	assert.Contains(t, out, "action_id=init_git")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "fetch=loader_versions")
}
