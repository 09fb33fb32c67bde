package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"psykit/internal/dataio"
	"psykit/internal/validation"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file.edf [file.edf ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	label := flag.String("label", "", "only show signals whose label contains this string")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	validator := validation.NewFileValidator(slog.Default())

	exitCode := 0
	for _, path := range flag.Args() {
		if err := validator.ValidateEDFFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
			continue
		}

		var labels []string
		if *label != "" {
			labels = []string{*label}
		}
		rec, err := dataio.LoadEDF(path, labels)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
			continue
		}

		printRecording(path, rec)
	}
	os.Exit(exitCode)
}

func printRecording(path string, rec *dataio.EDFRecording) {
	fmt.Printf("%s\n", path)
	fmt.Printf("  patient:    %s\n", rec.PatientID)
	fmt.Printf("  recording:  %s\n", rec.RecordingID)
	fmt.Printf("  start time: %s\n", rec.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Printf("  duration:   %s\n", rec.Duration)
	fmt.Printf("  signals:    %d\n", len(rec.Signals))
	for _, sig := range rec.Signals {
		fmt.Printf("    %-16s %8.2f Hz  %8d samples  [%s]\n",
			sig.Label, sig.SamplingRate, len(sig.Samples), sig.Dimension)
	}
}
