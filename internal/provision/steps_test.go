package provision

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdash/internal/config"
	"jobdash/internal/execx"
	"jobdash/internal/gh"
	"jobdash/internal/git"
	"jobdash/internal/launchd"
	"jobdash/internal/state"
)

// testContext wires a fake runner into a full Context rooted in a temp dir.
func testContext(t *testing.T, fake *execx.FakeRunner) *Context {
	t.Helper()
	workDir := t.TempDir()
	cfg := &config.Config{
		Account:     "octocat",
		Repo:        "job-dashboard",
		Description: "test dashboard",
		Branch:      "main",
		Schedule: config.ScheduleConfig{
			Times:       []string{"08:00", "18:00"},
			Program:     "/usr/local/bin/jobdash",
			Args:        []string{"update"},
			LabelPrefix: "com.jobdash.update",
			LogDir:      t.TempDir(),
		},
		Paths: config.PathsConfig{WorkDir: workDir},
	}
	return &Context{
		Config: cfg,
		State: &state.State{
			Tools: make(map[string]state.ToolState),
			Tasks: make(map[string]state.TaskState),
		},
		Runner: fake,
		Git:    git.New(fake, workDir),
		GH:     gh.New(fake, workDir),
		Agents: launchd.NewManager(fake, t.TempDir()),
	}
}

func TestPrereqStepFatalWhenGitMissing(t *testing.T) {
	fake := execx.NewFakeRunner()
	fake.Missing["git"] = true
	ctx := testContext(t, fake)

	err := prereqStep().Run(ctx)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	// The abort happens before any external command runs, so no network
	// call (repo creation, auth, push) can have been attempted.
	assert.Empty(t, fake.Calls)
}

func TestPrereqStepPassesWhenToolsPresent(t *testing.T) {
	fake := execx.NewFakeRunner()
	fake.Script("gh --version", "gh version 2.49.0 (2024-04-09)\n", nil)
	ctx := testContext(t, fake)

	require.NoError(t, prereqStep().Run(ctx))
	assert.False(t, fake.Ran("brew"), "no install should happen when gh is on PATH")
}

func TestAuthStepSkippedWhenSessionActive(t *testing.T) {
	fake := execx.NewFakeRunner()
	ctx := testContext(t, fake)

	satisfied, err := authStep().Check(ctx)
	require.NoError(t, err)
	assert.True(t, satisfied)
}

func TestAuthStepLoginWhenNoSession(t *testing.T) {
	fake := execx.NewFakeRunner()
	fake.Script("gh auth status", "You are not logged into any GitHub hosts", errors.New("exit status 1"))
	ctx := testContext(t, fake)

	satisfied, err := authStep().Check(ctx)
	require.NoError(t, err)
	require.False(t, satisfied)

	require.NoError(t, authStep().Run(ctx))
	assert.True(t, fake.Ran("gh auth login"))
}

func TestRemoteRepoStepCreatesWhenMissing(t *testing.T) {
	fake := execx.NewFakeRunner()
	fake.Script("gh repo view octocat/job-dashboard --json name", "not found", errors.New("exit status 1"))
	ctx := testContext(t, fake)

	require.NoError(t, remoteRepoStep().Run(ctx))
	assert.True(t, fake.Ran("gh repo create octocat/job-dashboard"))
	assert.False(t, fake.Ran("git remote"), "creation attaches the remote itself")
}

func TestRemoteRepoStepReconcilesWhenExists(t *testing.T) {
	fake := execx.NewFakeRunner()
	// Repo view succeeds (unscripted commands succeed), remote is absent.
	fake.Script("git remote get-url origin", "", errors.New("exit status 2"))
	ctx := testContext(t, fake)

	require.NoError(t, remoteRepoStep().Run(ctx))
	assert.False(t, fake.Ran("gh repo create"), "existing repo must not be created again")

	reconciliations := 0
	for _, line := range fake.CallLines() {
		if strings.HasPrefix(line, "git remote add") || strings.HasPrefix(line, "git remote set-url") {
			reconciliations++
		}
	}
	assert.Equal(t, 1, reconciliations, "exactly one remote reconciliation")
}

func TestRemoteRepoStepNoopWhenRemoteCorrect(t *testing.T) {
	fake := execx.NewFakeRunner()
	fake.Script("git remote get-url origin", "https://github.com/octocat/job-dashboard.git\n", nil)
	ctx := testContext(t, fake)

	require.NoError(t, remoteRepoStep().Run(ctx))
	assert.False(t, fake.Ran("gh repo create"))
	assert.False(t, fake.Ran("git remote add"))
	assert.False(t, fake.Ran("git remote set-url"))
}

func TestPublishStepToleratesCleanTree(t *testing.T) {
	fake := execx.NewFakeRunner()
	fake.Script("git status --porcelain", "", nil)
	ctx := testContext(t, fake)

	require.NoError(t, publishStep().Run(ctx))
	assert.False(t, fake.Ran("git commit"), "clean tree must not be committed")
	assert.True(t, fake.Ran("git push -u origin main"), "push still runs to establish upstream")
}

func TestPublishStepCommitsAndPushes(t *testing.T) {
	fake := execx.NewFakeRunner()
	fake.Script("git status --porcelain", " M index.html\n", nil)
	ctx := testContext(t, fake)

	require.NoError(t, publishStep().Run(ctx))
	assert.True(t, fake.Ran("git add -A"))
	assert.True(t, fake.Ran("git commit -m Publish dashboard:"))
	assert.True(t, fake.Ran("git push -u origin main"))
}

func TestPagesStepSkippedWhenAlreadyEnabled(t *testing.T) {
	fake := execx.NewFakeRunner()
	ctx := testContext(t, fake)

	satisfied, err := pagesStep().Check(ctx)
	require.NoError(t, err)
	assert.True(t, satisfied, "a 200 from the pages API means already enabled")
}

func TestScheduleStepInstallsBothAgents(t *testing.T) {
	fake := execx.NewFakeRunner()
	ctx := testContext(t, fake)

	require.NoError(t, ScheduleStep().Run(ctx))

	require.Len(t, ctx.State.Tasks, 2)
	morning := ctx.State.Tasks["com.jobdash.update.0800"]
	evening := ctx.State.Tasks["com.jobdash.update.1800"]
	assert.Equal(t, 8, morning.Hour)
	assert.Equal(t, 18, evening.Hour)

	for _, task := range []state.TaskState{morning, evening} {
		_, err := os.Stat(task.PlistPath)
		assert.NoError(t, err, "descriptor %s must exist", task.PlistPath)
	}
	assert.True(t, fake.Ran("launchctl load"))
}

func TestScheduleCommandPrefersConfiguredProgram(t *testing.T) {
	ctx := testContext(t, execx.NewFakeRunner())
	ctx.ConfigPath = "custom.yaml"

	program, args, err := scheduleCommand(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/jobdash", program)
	assert.Equal(t, []string{"update"}, args)
}

func TestScheduleCommandCarriesConfigPath(t *testing.T) {
	ctx := testContext(t, execx.NewFakeRunner())
	ctx.Config.Schedule.Program = ""
	ctx.ConfigPath = "custom.yaml"

	program, args, err := scheduleCommand(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, program)

	// The agents run from launchd, not from this shell, so the path they
	// receive must be absolute.
	require.Len(t, args, 3)
	assert.Equal(t, "update", args[0])
	assert.Equal(t, "--config", args[1])
	assert.True(t, filepath.IsAbs(args[2]), "config path handed to the agents: %s", args[2])
	assert.Equal(t, "custom.yaml", filepath.Base(args[2]))
}

func TestParseTime(t *testing.T) {
	hour, minute, err := ParseTime("08:00")
	require.NoError(t, err)
	assert.Equal(t, 8, hour)
	assert.Equal(t, 0, minute)

	_, _, err = ParseTime("25:00")
	assert.Error(t, err)
	_, _, err = ParseTime("morning")
	assert.Error(t, err)
}
