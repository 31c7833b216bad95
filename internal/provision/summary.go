package provision

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"

	"jobdash/internal/logger"
)

// PrintSummary prints the closing block after a successful run: where the
// dashboard lives, when the updater fires next, and how to run it by hand.
func PrintSummary(ctx *Context) {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Printf("\n%s\n", "Setup complete")

	fmt.Printf("\nDashboard:  %s\n", ctx.Config.SiteURL())
	fmt.Printf("Repository: https://github.com/%s\n", ctx.Config.Slug())
	fmt.Println("(the site can take a minute or two to build after the first push)")

	fmt.Println("\nUpdate schedule:")
	now := time.Now()
	for _, at := range ctx.Config.Schedule.Times {
		hour, minute, err := ParseTime(at)
		if err != nil {
			continue
		}
		line := fmt.Sprintf("  daily at %02d:%02d", hour, minute)
		if next, ok := nextRun(hour, minute, now); ok {
			line += fmt.Sprintf("  (next run %s)", next.Format("Mon Jan 2 15:04"))
		}
		fmt.Println(line)
	}

	fmt.Println("\nRun an update manually at any time with:")
	fmt.Println("  jobdash update")
}

// nextRun computes the next daily activation after now for a trigger time.
func nextRun(hour, minute int, now time.Time) (time.Time, bool) {
	sched, err := cron.ParseStandard(fmt.Sprintf("%d %d * * *", minute, hour))
	if err != nil {
		return time.Time{}, false
	}
	return sched.Next(now), true
}

// OpenSite opens the published dashboard in the default browser after a short
// delay, giving Pages a moment to start its first build. Cosmetic only;
// failures are logged and ignored.
func OpenSite(ctx *Context, delay time.Duration) {
	url := ctx.Config.SiteURL()
	logger.Info("[INFO] Opening %s in %s...\n", url, delay)
	time.Sleep(delay)
	if out, err := ctx.Runner.Run("", "open", url); err != nil {
		logger.Warn("[WARN] Could not open browser: %v (%s)\n", err, out)
	}
}
