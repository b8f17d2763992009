package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/atable/internal/config"
	"github.com/oakwood-commons/atable/internal/limiter"
	"github.com/oakwood-commons/atable/internal/rowreader"
	"github.com/oakwood-commons/atable/pkg/atable"
	"github.com/oakwood-commons/atable/pkg/logger"
	"github.com/oakwood-commons/atable/pkg/settings"
	"github.com/oakwood-commons/atable/pkg/textwidth"
)

// rowSink receives the rows read from all inputs.
type rowSink struct {
	printer    atable.Printer
	sliding    *atable.SlidingTable
	stream     *limiter.Stream[[]string]
	header     bool
	headerSep  string
	headerDone bool
	lgr        logr.Logger
}

func runTable(cmd *cobra.Command, opts *rootOptions) error {
	if err := opts.limit.Validate(); err != nil {
		return fmt.Errorf("record limiting error: %w", err)
	}
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	format, err := rowreader.ParseFormat(cfg.InputFormat)
	if err != nil {
		return err
	}

	lgr := *logger.FromContext(cmd.Context())
	sink, err := newRowSink(cmd.OutOrStdout(), cfg, opts.limit, lgr)
	if err != nil {
		return err
	}

	run := settings.FromContextOrDefault(cmd.Context())
	for _, name := range run.Inputs {
		done, err := sink.consumeInput(cmd, name, format)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	return sink.flush()
}

func newRowSink(out io.Writer, cfg config.Config, limit limiter.Config, lgr logr.Logger) (*rowSink, error) {
	measurer, err := cfg.Measurer()
	if err != nil {
		return nil, err
	}
	tableOpts := []atable.Option{
		atable.WithDelimiter(cfg.Delimiter),
		atable.WithMeasurer(measurer),
		atable.WithHeaderSeparator(cfg.HeaderSeparator),
	}

	sink := &rowSink{
		stream:    limiter.NewStream[[]string](limit),
		header:    cfg.Header,
		headerSep: cfg.HeaderSeparator,
		lgr:       lgr,
	}

	window := cfg.Window
	if cfg.ScreenWindow {
		window = screenRows()
	}
	if window > 0 {
		sliding, err := atable.NewSliding(out, window, tableOpts...)
		if err != nil {
			return nil, err
		}
		sink.printer = sliding
		sink.sliding = sliding
	} else {
		sink.printer = atable.New(out, tableOpts...)
	}
	lgr.V(1).Info("table ready", "delimiter", cfg.Delimiter, "widthMode", cfg.WidthMode, "window", window)
	return sink, nil
}

// consumeInput prints every row of one input. It reports true once the
// limiter wants no more rows.
func (s *rowSink) consumeInput(cmd *cobra.Command, name string, format rowreader.Format) (bool, error) {
	var in io.Reader
	if name == "-" {
		in = cmd.InOrStdin()
	} else {
		f, err := os.Open(name)
		if err != nil {
			return false, err
		}
		defer f.Close()
		in = f
	}
	s.lgr.V(1).Info("reading input", "name", name, "format", string(format))

	reader, err := rowreader.New(in, format)
	if err != nil {
		return false, err
	}
	for rowNum := 1; ; rowNum++ {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%s: %w", name, err)
		}

		if s.header && !s.headerDone {
			s.headerDone = true
			if keys := reader.Keys(); keys != nil {
				if err := s.printer.PrintHeaderWith(s.headerSep, toAny(keys)...); err != nil {
					return false, s.rowError(name, rowNum, err)
				}
			} else {
				if err := s.printer.PrintHeaderWith(s.headerSep, toAny(row)...); err != nil {
					return false, s.rowError(name, rowNum, err)
				}
				continue
			}
		}

		if s.stream.Offer(row) {
			if err := s.print(row); err != nil {
				return false, s.rowError(name, rowNum, err)
			}
		}
		if s.stream.Done() {
			return true, nil
		}
	}
}

func (s *rowSink) print(row []string) error {
	if err := s.printer.Print(toAny(row)...); err != nil {
		return err
	}
	if s.sliding != nil && s.sliding.Count()%s.sliding.Window() == 0 {
		s.lgr.V(1).Info("column widths reset", "rows", s.sliding.Count(), "widths", s.sliding.Widths())
	}
	return nil
}

func (s *rowSink) flush() error {
	for _, row := range s.stream.Flush() {
		if err := s.print(row); err != nil {
			return err
		}
	}
	return nil
}

// rowError adds the row position to measurement failures. Write errors are
// returned untouched.
func (s *rowSink) rowError(name string, rowNum int, err error) error {
	if errors.Is(err, textwidth.ErrUnknownWidthCategory) {
		return fmt.Errorf("%s: row %d: %w (use --unknown-width to substitute a width)", name, rowNum, err)
	}
	return err
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}
