package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"--email", "a@b.co", "--password", "secret123", "--force"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, options{Email: "a@b.co", Password: "secret123", Force: true}, opts)

	opts, err = parseFlags(nil, &stderr)
	require.NoError(t, err)
	assert.Equal(t, options{}, opts)
}

func TestParseFlags_Rejects(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"--unknown"}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"extra"}, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "extra")
}

// stubTerminal подменяет проверку терминала и чтение пароля на время теста.
func stubTerminal(t *testing.T, terminal bool, pw string, err error) {
	t.Helper()
	origRead, origIs := readPassword, isTerminal
	t.Cleanup(func() {
		readPassword, isTerminal = origRead, origIs
	})
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return []byte(pw), err }
}

func TestPromptPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, "typed-secret", nil)
	var out bytes.Buffer

	pw, err := promptPassword(0, &out)
	require.NoError(t, err)
	assert.Equal(t, "typed-secret", pw)
	assert.Contains(t, out.String(), "Пароль администратора")
}

func TestPromptPassword_NotTerminal(t *testing.T) {
	stubTerminal(t, false, "ignored", nil)
	var out bytes.Buffer

	pw, err := promptPassword(0, &out)
	require.NoError(t, err)
	assert.Empty(t, pw)
	assert.Empty(t, out.String())
}

func TestPromptPassword_ReadError(t *testing.T) {
	stubTerminal(t, true, "", errors.New("tty closed"))

	_, err := promptPassword(0, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_BadFlagsExitOne(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(t.Context(), []string{"--nope"}, &stdout, &stderr))
}

func TestRun_MissingConfigExitOne(t *testing.T) {
	t.Setenv("DB_HOST", "")
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, run(t.Context(), []string{"--password", "secret123"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "DB_HOST")
}
