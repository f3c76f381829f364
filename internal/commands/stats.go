package commands

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"go-chatmod/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

var botStartTime = time.Now()

// handleStats shows process, system, and engine counter statistics
func handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	// Defer response to allow time for gathering stats
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		return err
	}

	embeds := []*discordgo.MessageEmbed{
		systemEmbed(s),
		countersEmbed(),
	}
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	})
	return err
}

func systemEmbed(s *discordgo.Session) *discordgo.MessageEmbed {
	hostText := "unavailable"
	if hostInfo, err := host.Info(); err == nil {
		hostText = fmt.Sprintf("**Host:** `%s`\n**OS:** `%s/%s`\n**Uptime:** `%s`",
			hostInfo.Hostname, hostInfo.OS, hostInfo.KernelArch,
			formatDuration(time.Duration(hostInfo.Uptime)*time.Second))
	}

	cpuText := "unavailable"
	if cpuPercent, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercent) > 0 {
		cpuText = fmt.Sprintf("**Usage:** `%.1f%%`\n%s", cpuPercent[0], progressBar(cpuPercent[0]))
	}

	memText := "unavailable"
	if memInfo, err := mem.VirtualMemory(); err == nil {
		memText = fmt.Sprintf("**Used:** `%s / %s` (%.1f%%)\n%s",
			formatBytes(memInfo.Used), formatBytes(memInfo.Total),
			memInfo.UsedPercent, progressBar(memInfo.UsedPercent))
	}

	processText := fmt.Sprintf("**Goroutines:** `%d`\n**Go:** `%s`", runtime.NumGoroutine(), runtime.Version())
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			processText += fmt.Sprintf("\n**RSS:** `%s`", formatBytes(memInfo.RSS))
		}
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	processText += fmt.Sprintf("\n**Heap:** `%s`\n**GC Cycles:** `%d`", formatBytes(m.Alloc), m.NumGC)

	return &discordgo.MessageEmbed{
		Title: "Process & System",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Host", Value: hostText, Inline: false},
			{Name: "CPU", Value: cpuText, Inline: true},
			{Name: "Memory", Value: memText, Inline: true},
			{Name: "Runtime", Value: processText, Inline: false},
			{
				Name: "Bot",
				Value: fmt.Sprintf("**Uptime:** `%s`\n**Guilds:** `%d`\n**Latency:** `%dms`",
					formatDuration(time.Since(botStartTime)),
					len(s.State.Guilds),
					s.HeartbeatLatency().Milliseconds()),
				Inline: false,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func countersEmbed() *discordgo.MessageEmbed {
	snapshot := metrics.GetRegistry().Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("`%s` %d", name, snapshot[name]))
	}
	value := "No counters yet."
	if len(lines) > 0 {
		value = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       "Engine Counters",
		Description: value,
		Color:       0x5865F2,
	}
}

// Helper functions

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func progressBar(percent float64) string {
	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	return "`" + strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + "`"
}
