package ringlog

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// PrintStats writes one row per live producer (identity hash, module,
// approximate ring occupancy, ring capacity) followed by pipeline-wide
// counters, using text/tabwriter — the standard library is the right
// tool for a single plain-terminal table; see DESIGN.md for why no
// third-party formatter replaces it here.
func (l *Logger) PrintStats(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "PRODUCER\tMODULE\tOCCUPANCY\tCAPACITY")
	for _, r := range l.registry.snapshot() {
		fmt.Fprintf(tw, "T-%x\t%s\t%d\t%d\n", r.id, moduleForRing(l, r), r.size(), r.capacity())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "PROCESSED\tDROPPED\tROTATIONS\tDELETIONS\tINTERNAL_ERRORS\tUPTIME")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%s\n",
		l.stats.totalProcessed.Load(),
		l.stats.droppedRecords.Load(),
		l.stats.rotations.Load(),
		l.stats.deletions.Load(),
		l.stats.internalErrors.Load(),
		time.Since(l.stats.startTime).Round(time.Second))

	return tw.Flush()
}

// moduleForRing is a best-effort lookup: the Registry only tracks rings,
// not their owning Producer's module name, so PrintStats falls back to
// "-" for rings it cannot resolve back to a live Producer. Producers
// created through NewLogger.NewProducer are tracked via the goroutine
// cache only when created through the package-level convenience API;
// dedicated handles are the caller's own responsibility to label.
func moduleForRing(l *Logger, r *ProducerRing) string {
	l.producers.mu.Lock()
	defer l.producers.mu.Unlock()
	for _, p := range l.producers.byGID {
		if p.ring == r {
			return p.moduleName()
		}
	}
	return "-"
}
