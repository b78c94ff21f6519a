package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leadforge/leadcore/internal/quickstart"
)

func TestWizardSession_ReleasesReaderOnQuit(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pr, pw := io.Pipe()
	defer pw.Close()
	go func() {
		_, _ = pw.Write([]byte("persona agent\nquit\n"))
	}()

	var out bytes.Buffer
	session := &wizardSession{store: quickstart.NewStore(nil), out: &out}
	require.NoError(t, session.run(context.Background(), pr))

	assert.Contains(t, out.String(), "[persona-selected] persona=agent goal=none")
}

func TestWizardSession_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	session := &wizardSession{store: quickstart.NewStore(nil), out: &out}
	assert.ErrorIs(t, session.run(ctx, pr), context.Canceled)
}
