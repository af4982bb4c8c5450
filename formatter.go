package ringlog

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// FormatOptions controls which fields Format renders, mirroring the
// show_* toggles in Config. Formatter itself is pure and
// stateless: the same Record and FormatOptions always render to the same
// bytes except for the timestamp text.
type FormatOptions struct {
	ShowTimestamp      bool
	ShowThreadID       bool
	ShowSourceLocation bool
	ShowModuleName     bool
	ShowFullPath       bool
	TimestampFormat    string
	Color              bool // wrap the whole rendered line in ANSI color (terminal sink only)
}

// Format renders rec into a freshly borrowed bytebufferpool.ByteBuffer.
// The caller must call bytebufferpool.Put(buf) once done writing it out.
// Layout: "[timestamp] [LEVEL] [T-hash] [module] [file:line] message\n".
// Any field whose show_* toggle is off is omitted along with its
// brackets; message is always last and never bracketed. When Color is
// set, a level-specific foreground escape precedes the whole line and a
// reset escape closes it, just before the trailing newline.
func Format(rec Record, opts FormatOptions) *bytebufferpool.ByteBuffer {
	buf := bytebufferpool.Get()

	if opts.Color {
		buf.B = append(buf.B, rec.Level.ansiColor()...)
	}

	wrote := false
	sep := func() {
		if wrote {
			buf.B = append(buf.B, ' ')
		}
	}

	if opts.ShowTimestamp {
		sep()
		buf.B = append(buf.B, '[')
		buf.B = rec.Timestamp.AppendFormat(buf.B, opts.TimestampFormat)
		buf.B = append(buf.B, ']')
		wrote = true
	}

	sep()
	buf.B = append(buf.B, '[')
	buf.B = append(buf.B, rec.Level.String()...)
	buf.B = append(buf.B, ']')
	wrote = true

	if opts.ShowThreadID {
		sep()
		buf.B = append(buf.B, "[T-"...)
		buf.B = strconv.AppendUint(buf.B, rec.Context.ProducerID, 10)
		buf.B = append(buf.B, ']')
		wrote = true
	}

	if opts.ShowModuleName && rec.Context.Module != "" {
		sep()
		buf.B = append(buf.B, '[')
		buf.B = append(buf.B, rec.Context.Module...)
		buf.B = append(buf.B, ']')
		wrote = true
	}

	if opts.ShowSourceLocation && rec.Context.File != "" {
		sep()
		buf.B = append(buf.B, '[')
		buf.B = append(buf.B, basename(rec.Context.File, opts.ShowFullPath)...)
		buf.B = append(buf.B, ':')
		buf.B = strconv.AppendInt(buf.B, int64(rec.Context.Line), 10)
		buf.B = append(buf.B, ']')
		wrote = true
	}

	sep()
	buf.B = append(buf.B, rec.Message...)
	if opts.Color {
		buf.B = append(buf.B, ansiReset...)
	}
	buf.B = append(buf.B, '\n')

	return buf
}

// formatOptionsFromConfig projects the subset of Config that governs
// rendering into a FormatOptions, so the Consumer doesn't reach into
// Config fields it doesn't otherwise need.
func formatOptionsFromConfig(cfg *Config, color bool) FormatOptions {
	return FormatOptions{
		ShowTimestamp:      cfg.ShowTimestamp,
		ShowThreadID:       cfg.ShowThreadID,
		ShowSourceLocation: cfg.ShowSourceLocation,
		ShowModuleName:     cfg.ShowModuleName,
		ShowFullPath:       cfg.ShowFullPath,
		TimestampFormat:    cfg.TimestampFormat,
		Color:              color && cfg.UseColors,
	}
}
