package core

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/internal/logging"
	"voice-domme/internal/uptime"
	"voice-domme/internal/version"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/process"
)

type StatusCommand struct {
	Uptime uptime.Source
}

func (c *StatusCommand) Name() string             { return "status" }
func (c *StatusCommand) Description() string      { return "Show how long the bot has been running" }
func (c *StatusCommand) Group() string            { return "core" }
func (c *StatusCommand) Category() string         { return "🕯️ Information" }
func (c *StatusCommand) UserPermissions() []int64 { return []int64{} }

func (c *StatusCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

type statusReport struct {
	Uptime   string
	Memory   string
	Guilds   int
	Release  string
	Latency  int64
	HasState bool
}

func (c *StatusCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	s, e := context.Session, context.Event
	logger := logging.For("command", c.Name(), context.ExecutionID)

	up, err := uptime.Since(c.Uptime)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to format uptime.")
		return err
	}

	report := statusReport{
		Uptime:  up,
		Memory:  memoryUsage(),
		Release: releaseString(version.BuildDate, version.GoVersion),
		Latency: s.HeartbeatLatency().Milliseconds(),
	}
	if s.State != nil {
		s.State.RLock()
		report.Guilds = len(s.State.Guilds)
		s.State.RUnlock()
		report.HasState = true
	}

	return bot.RespondEmbedEphemeral(s, e, statusEmbed(report))
}

func statusEmbed(r statusReport) *discordgo.MessageEmbed {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⏱️ Uptime: **`%s`**\n", r.Uptime)
	fmt.Fprintf(&sb, "🧠 Memory: **`%s`**\n", r.Memory)
	if r.HasState {
		fmt.Fprintf(&sb, "🏠 Servers: **`%d`**\n", r.Guilds)
	}
	fmt.Fprintf(&sb, "🏓 Latency: **`%dms`**\n", r.Latency)
	fmt.Fprintf(&sb, "📦 Release: %s", r.Release)

	return &discordgo.MessageEmbed{
		Title:       "📊 " + version.AppName + " Status",
		Description: sb.String(),
		Color:       bot.EmbedColor,
	}
}

// memoryUsage reports the resident set size, or the Go heap when the OS
// cannot be asked.
func memoryUsage() string {
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			return humanize.Bytes(mi.RSS)
		}
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return humanize.Bytes(ms.HeapAlloc)
}

func releaseString(buildDate, goVersion string) string {
	if buildDate == "" {
		buildDate = "unknown"
	}
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return fmt.Sprintf("%s (Go %s)", buildDate, strings.TrimPrefix(goVersion, "go"))
}
