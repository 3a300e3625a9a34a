// Package trainlog implements per-epoch metric logging for training
// loops: a terminal progress bar with a metric postfix and an optional
// periodic metrics table.
package trainlog

import (
	"fmt"
	"io"
	"os"

	"github.com/lucasgandara/govpg/utils/progressbar"
)

// Logger displays training progress. A Logger is acquired at training
// start and must be released with Close() when training ends, on both
// normal completion and on any propagated error.
type Logger struct {
	epochs       int
	tableLogFreq int
	maxSteps     int
	bar          *progressbar.ManualProgressBar
	out          io.Writer
	headerShown  bool
}

// New returns a new Logger for a training run of the given number of
// epochs. When progressBar is true a progress bar is displayed and
// updated on every call to Update. When tableLogFreq > 0 a metrics
// table row is printed every tableLogFreq epochs.
func New(epochs int, progressBar bool, tableLogFreq int) *Logger {
	logger := &Logger{
		epochs:       epochs,
		tableLogFreq: tableLogFreq,
		out:          os.Stdout,
	}
	if progressBar {
		logger.bar = progressbar.NewManualProgressBar(25, epochs)
	}
	return logger
}

// Update records the metrics of one epoch, refreshing the progress bar
// and printing a table row if the epoch falls on the logging
// frequency. The epoch argument is 0-indexed.
func (l *Logger) Update(epoch int, loss, reward float64, steps int,
	advantages float64) {
	if steps > l.maxSteps {
		l.maxSteps = steps
	}

	if l.bar != nil {
		l.bar.SetPostfix(fmt.Sprintf("reward=%8.1f | loss=%8.4f | "+
			"max_steps=%5d", reward, loss, l.maxSteps))
		l.bar.Increment()
		l.bar.Display()
	}

	if l.tableLogFreq > 0 && (epoch+1)%l.tableLogFreq == 0 {
		l.logTable(epoch, loss, reward, steps, advantages)
	}
}

// logTable prints one row of the metrics table, preceded by the header
// on the first row
func (l *Logger) logTable(epoch int, loss, reward float64, steps int,
	advantages float64) {
	if !l.headerShown {
		fmt.Fprintf(l.out, "\n%8v  %12v  %12v  %8v  %12v\n",
			"epoch", "loss", "reward", "steps", "advantages")
		l.headerShown = true
	}
	fmt.Fprintf(l.out, "%8d  %12.4f  %12.1f  %8d  %12.4f\n",
		epoch, loss, reward, steps, advantages)
}

// Close releases the Logger, finishing the progress bar line
func (l *Logger) Close() error {
	if l.bar != nil {
		fmt.Fprintln(l.out)
		l.bar = nil
	}
	return nil
}
