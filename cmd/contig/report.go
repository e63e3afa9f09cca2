package main

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/contig/memutils"
	"golang.org/x/exp/slog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func (s *shell) stat() {
	if s.json {
		writer := jwriter.NewWriter()
		s.space.PrintDetailedMap(&writer)
		if err := writer.Error(); err != nil {
			s.logger.Error("failed to write detailed map", slog.Any("error", err))
			fmt.Fprintln(s.out, "WARNING: Error has occurred")
			return
		}

		fmt.Fprintln(s.out, string(writer.Bytes()))
		return
	}

	for _, info := range s.space.Snapshot() {
		fmt.Fprintf(s.out, "[%d] %s - [%d: %d) - %d\n", info.ID, info.Name, info.Base, info.End, info.Length)
	}

	var stats memutils.DetailedStatistics
	stats.Clear()
	s.space.DetailedStatistics(&stats)

	printer.Fprintf(s.out, "   %d bytes: %d used by %d processes, %d free in %d holes (largest %d, fragmentation %.1f%%)\n",
		stats.SpaceBytes,
		stats.AllocationBytes,
		stats.AllocationCount,
		stats.FreeBytes(),
		stats.UnusedRangeCount,
		stats.UnusedRangeSizeMax,
		stats.ExternalFragmentation()*100)
}
