package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "studylog/internal/platform/errors"
)

func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dataDir, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCommandLineRoundTrip(t *testing.T) {
	t.Setenv("STUDYLOG_DATABASE_DSN", "")
	dir := t.TempDir()

	out, err := execute(t, dir, "category", "add", "語学")
	require.NoError(t, err)
	require.Contains(t, out, "category added: 1 語学")

	out, err = execute(t, dir, "material", "add", "英単語", "--category", "1")
	require.NoError(t, err)
	require.Contains(t, out, "material added: 1 英単語 (語学)")

	out, err = execute(t, dir, "session", "start", "1")
	require.NoError(t, err)
	require.Contains(t, out, "session started: 1 英単語")

	_, err = execute(t, dir, "session", "start", "1")
	require.True(t, errors.Is(err, apperrors.ErrActiveSessionExists))
	require.Equal(t, "進行中のセッションが既に存在します。", apperrors.Message(err))

	out, err = execute(t, dir, "dashboard")
	require.NoError(t, err)
	require.Contains(t, out, "active\t英単語")

	out, err = execute(t, dir, "session", "stop")
	require.NoError(t, err)
	require.Contains(t, out, "session stopped: 1 英単語")

	_, err = execute(t, dir, "session", "stop")
	require.True(t, errors.Is(err, apperrors.ErrNoActiveSession))

	out, err = execute(t, dir, "history", "--window", "all")
	require.NoError(t, err)
	require.Contains(t, out, "英単語")

	_, err = execute(t, dir, "material", "delete", "1")
	require.True(t, errors.Is(err, apperrors.ErrDependency))

	out, err = execute(t, dir, "migrate", "status")
	require.NoError(t, err)
	require.Contains(t, out, "applied")
}

func TestExerciseCommands(t *testing.T) {
	t.Setenv("STUDYLOG_DATABASE_DSN", "")
	dir := t.TempDir()

	_, err := execute(t, dir, "exercise", "category", "add", "筋トレ")
	require.NoError(t, err)
	out, err := execute(t, dir, "exercise", "item", "add", "腕立て伏せ", "--category", "1", "--type", "count")
	require.NoError(t, err)
	require.Contains(t, out, "exercise added: 1 腕立て伏せ (筋トレ, count)")

	out, err = execute(t, dir, "exercise", "log", "record", "1", "20")
	require.NoError(t, err)
	require.Contains(t, out, "20回")

	_, err = execute(t, dir, "exercise", "log", "record", "--", "1", "-3")
	require.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	out, err = execute(t, dir, "exercise", "log", "totals", "--window", "all")
	require.NoError(t, err)
	require.Contains(t, out, "腕立て伏せ\t20回\t1")

	_, err = execute(t, dir, "exercise", "log", "show", "abc")
	require.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestReportExportWritesFile(t *testing.T) {
	t.Setenv("STUDYLOG_DATABASE_DSN", "")
	dir := t.TempDir()

	out, err := execute(t, dir, "report", "export")
	require.NoError(t, err)
	require.Contains(t, out, "report.md")
}
