package permission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmate-ai/devmate/pkg/types"
)

func TestParseShellCommand(t *testing.T) {
	cmds, err := ParseShellCommand("git status")
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "git", cmds[0].Name)
	assert.Equal(t, "status", cmds[0].Subcommand)

	cmds, err = ParseShellCommand("ls -la | grep foo && wc -l")
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, "ls", cmds[0].Name)
	assert.Equal(t, "grep", cmds[1].Name)
	assert.Equal(t, "wc", cmds[2].Name)
}

func TestParseShellCommandQuoting(t *testing.T) {
	cmds, err := ParseShellCommand(`git commit -m "fix: a bug"`)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "commit", cmds[0].Subcommand)
	assert.Contains(t, cmds[0].Args, "fix: a bug")
}

func TestCommandAllowed(t *testing.T) {
	c := NewChecker([]string{"git status*", "go test*", "ls*"}, types.AutoApproveConfig{})

	allowed := func(line string) bool {
		cmds, err := ParseShellCommand(line)
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		return c.CommandAllowed(cmds[0])
	}

	assert.True(t, allowed("git status"))
	assert.True(t, allowed("git status --short"))
	assert.True(t, allowed("go test ./..."))
	assert.True(t, allowed("ls -la"))
	assert.False(t, allowed("git push"))
	assert.False(t, allowed("rm -rf /"))
}

func TestCheckCommandAllowlisted(t *testing.T) {
	c := NewChecker([]string{"git status*", "grep*"}, types.AutoApproveConfig{})

	err := c.CheckCommand(context.Background(), "s1", "c1", "git status | grep modified")
	assert.NoError(t, err)
}

func TestCheckCommandAutoApprove(t *testing.T) {
	c := NewChecker(nil, types.AutoApproveConfig{Commands: true})

	err := c.CheckCommand(context.Background(), "s1", "c1", "rm -rf build")
	assert.NoError(t, err)
}

func TestCheckCommandRejectedWithoutResponse(t *testing.T) {
	c := NewChecker(nil, types.AutoApproveConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.CheckCommand(ctx, "s1", "c1", "rm -rf build")
	assert.Error(t, err)
}

func TestCheckCommandUnparseable(t *testing.T) {
	c := NewChecker(nil, types.AutoApproveConfig{Commands: true})

	err := c.CheckCommand(context.Background(), "s1", "c1", "if then fi ((")
	require.Error(t, err)
	assert.True(t, IsRejectedError(err))
}

func TestAskRespondOnce(t *testing.T) {
	c := NewChecker(nil, types.AutoApproveConfig{})

	req := Request{ID: "req-1", Type: PermCommand, SessionID: "s1", Pattern: []string{"rm *"}}
	done := make(chan error, 1)
	go func() {
		done <- c.Ask(context.Background(), req)
	}()

	// Give Ask a moment to register the pending request.
	time.Sleep(10 * time.Millisecond)
	c.Respond("req-1", "once")

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Ask did not return")
	}

	// "once" must not persist the approval.
	assert.False(t, c.IsPatternApproved("s1", "rm *"))
}

func TestAskRespondAlwaysPersists(t *testing.T) {
	c := NewChecker(nil, types.AutoApproveConfig{})

	req := Request{ID: "req-2", Type: PermCommand, SessionID: "s1", Pattern: []string{"make *"}}
	done := make(chan error, 1)
	go func() {
		done <- c.Ask(context.Background(), req)
	}()
	time.Sleep(10 * time.Millisecond)
	c.Respond("req-2", "always")
	require.NoError(t, <-done)

	assert.True(t, c.IsPatternApproved("s1", "make *"))

	// Second ask for the same pattern resolves without a pending prompt.
	err := c.Ask(context.Background(), Request{Type: PermCommand, SessionID: "s1", Pattern: []string{"make *"}})
	assert.NoError(t, err)

	c.ClearSession("s1")
	assert.False(t, c.IsPatternApproved("s1", "make *"))
}

func TestAskRespondReject(t *testing.T) {
	c := NewChecker(nil, types.AutoApproveConfig{})

	done := make(chan error, 1)
	go func() {
		done <- c.Ask(context.Background(), Request{ID: "req-3", Type: PermEdit, SessionID: "s1"})
	}()
	time.Sleep(10 * time.Millisecond)
	c.Respond("req-3", "reject")

	err := <-done
	require.Error(t, err)
	assert.True(t, IsRejectedError(err))
}

func TestCheckEditAutoApprove(t *testing.T) {
	c := NewChecker(nil, types.AutoApproveConfig{Edits: true})
	assert.NoError(t, c.CheckEdit(context.Background(), "s1", "c1", "/tmp/x.go"))
}

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"*", "anything", true},
		{"git status*", "git status --short", true},
		{"git status*", "git stash", false},
		{"*.go", "main.go", true},
		{"*.go", "main.py", false},
		{"go *", "go test", true},
		{"exact", "exact", true},
		{"exact", "exactly", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchWildcard(tt.pattern, tt.s), "pattern %q vs %q", tt.pattern, tt.s)
	}
}

func TestBuildPatterns(t *testing.T) {
	cmds, err := ParseShellCommand("git commit -m x && git commit -m y && ls")
	require.NoError(t, err)

	patterns := BuildPatterns(cmds)
	assert.Contains(t, patterns, "git commit *")
	assert.Contains(t, patterns, "ls *")
	// Duplicates collapse.
	assert.Len(t, patterns, 2)
}
