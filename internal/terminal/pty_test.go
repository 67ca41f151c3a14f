package terminal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellArgs(t *testing.T) {
	assert.Equal(t, []string{"-l", "-i"}, shellArgs("/bin/zsh"))
	assert.Equal(t, []string{"-l", "-i"}, shellArgs("/usr/bin/bash"))
	assert.Equal(t, []string{"-l", "-i"}, shellArgs("/usr/local/bin/fish"))
	assert.Equal(t, []string{"-i"}, shellArgs("/bin/sh"))
	assert.Nil(t, shellArgs("/usr/bin/ksh"))
}

func TestResolveShellSkipsMissingShellEnv(t *testing.T) {
	t.Setenv("SHELL", "/nonexistent/definitely-not-a-shell")
	sh := resolveShell()
	assert.NotEmpty(t, sh)
	assert.NotEqual(t, "/nonexistent/definitely-not-a-shell", sh)
}

func TestShellEnvCarriesTerminalDefaults(t *testing.T) {
	env := shellEnv()
	assert.Contains(t, env, "TERM=xterm-256color")
	assert.Contains(t, env, "COLORTERM=truecolor")
	assert.Contains(t, env, "LANG=en_US.UTF-8")
}

func TestStartPTYHostSpawnsRealShell(t *testing.T) {
	termQueue := make(chan TermCommand, 64)
	ptyQueue := make(chan PtyCommand, 8)

	host, err := StartPTYHost(NewSessionId(), termQueue, ptyQueue)
	require.NoError(t, err)
	defer host.Close()

	ptyQueue <- NewPtyData([]byte("echo hi\n"))

	var sawData bool
	deadline := time.After(3 * time.Second)
	for !sawData {
		select {
		case cmd := <-termQueue:
			if cmd.Kind == TermData {
				sawData = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for PTY output")
		}
	}
}
