package dataio

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/edf"

	apperrors "psykit/internal/errors"
)

// EDFSignal is one decoded channel of an EDF/EDF+ file.
type EDFSignal struct {
	Label        string
	Dimension    string
	SamplingRate float64
	Samples      []float64
}

// EDFRecording is a decoded EDF/EDF+ file. Signals keep file order;
// channels may have different sampling rates.
type EDFRecording struct {
	PatientID   string
	RecordingID string
	StartTime   time.Time
	Duration    time.Duration
	Signals     []EDFSignal
}

// Signal returns the first channel whose label contains the given
// substring.
func (r *EDFRecording) Signal(label string) (*EDFSignal, error) {
	for i := range r.Signals {
		if strings.Contains(r.Signals[i].Label, label) {
			return &r.Signals[i], nil
		}
	}
	return nil, apperrors.NewWithDetails(apperrors.CodeMissingParameter,
		"recording has no such channel", label)
}

// edfHeader is the subset of the EDF file header needed to size and label
// the decoded signals. The sample decoding itself is delegated to the edf
// package, which keeps its parsed header private.
type edfHeader struct {
	patientID      string
	recordingID    string
	startTime      time.Time
	dataRecords    int
	recordDuration float64
	labels         []string
	dimensions     []string
	samplesPerRec  []int
}

func parseEDFHeader(r io.Reader) (*edfHeader, error) {
	fixed := make([]byte, 256)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"file too short for an EDF header", err.Error())
	}

	hdr := &edfHeader{
		patientID:   strings.TrimSpace(string(fixed[8:88])),
		recordingID: strings.TrimSpace(string(fixed[88:168])),
	}

	dateStr := strings.TrimSpace(string(fixed[168:176]))
	timeStr := strings.TrimSpace(string(fixed[176:184]))
	start, err := time.Parse("02.01.06 15.04.05", dateStr+" "+timeStr)
	if err != nil {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"unparseable EDF start time", dateStr+" "+timeStr)
	}
	hdr.startTime = start

	hdr.dataRecords, err = strconv.Atoi(strings.TrimSpace(string(fixed[236:244])))
	if err != nil {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"invalid EDF data record count", string(fixed[236:244]))
	}
	hdr.recordDuration, err = strconv.ParseFloat(strings.TrimSpace(string(fixed[244:252])), 64)
	if err != nil || hdr.recordDuration <= 0 {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"invalid EDF record duration", string(fixed[244:252]))
	}
	ns, err := strconv.Atoi(strings.TrimSpace(string(fixed[252:256])))
	if err != nil || ns <= 0 {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"invalid EDF signal count", string(fixed[252:256]))
	}

	readBlock := func(width int) ([]string, error) {
		buf := make([]byte, ns*width)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
				"truncated EDF signal header", err.Error())
		}
		out := make([]string, ns)
		for i := 0; i < ns; i++ {
			out[i] = strings.TrimSpace(string(buf[i*width : (i+1)*width]))
		}
		return out, nil
	}

	if hdr.labels, err = readBlock(16); err != nil {
		return nil, err
	}
	if _, err = readBlock(80); err != nil { // transducer types
		return nil, err
	}
	if hdr.dimensions, err = readBlock(8); err != nil {
		return nil, err
	}
	// physical min/max, digital min/max, prefiltering
	for _, width := range []int{8, 8, 8, 8, 80} {
		if _, err = readBlock(width); err != nil {
			return nil, err
		}
	}
	samples, err := readBlock(8)
	if err != nil {
		return nil, err
	}
	hdr.samplesPerRec = make([]int, ns)
	for i, s := range samples {
		hdr.samplesPerRec[i], err = strconv.Atoi(s)
		if err != nil || hdr.samplesPerRec[i] <= 0 {
			return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
				"invalid EDF samples-per-record field", s)
		}
	}
	return hdr, nil
}

// LoadEDF decodes an EDF/EDF+ file. labels optionally restricts the
// loaded channels: a channel is kept when its label contains one of the
// given strings.
func LoadEDF(path string, labels []string) (*EDFRecording, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer file.Close()

	hdr, err := parseEDFHeader(file)
	if err != nil {
		return nil, fmt.Errorf("read edf header %s: %w", path, err)
	}
	if hdr.dataRecords < 0 {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"recording has an unknown data record count", path)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind recording: %w", err)
	}
	reader, err := edf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open edf %s: %w", path, err)
	}

	rec := &EDFRecording{
		PatientID:   hdr.patientID,
		RecordingID: hdr.recordingID,
		StartTime:   hdr.startTime,
		Duration: time.Duration(float64(hdr.dataRecords) * hdr.recordDuration *
			float64(time.Second)),
	}

	for i, label := range hdr.labels {
		if !matchDatastream(label, labels) {
			continue
		}
		sr, err := reader.Signal(i)
		if err != nil {
			return nil, fmt.Errorf("open channel %s: %w", label, err)
		}
		samples := make([]float64, hdr.dataRecords*hdr.samplesPerRec[i])
		n, err := sr.Read(samples)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode channel %s: %w", label, err)
		}
		rec.Signals = append(rec.Signals, EDFSignal{
			Label:        label,
			Dimension:    hdr.dimensions[i],
			SamplingRate: float64(hdr.samplesPerRec[i]) / hdr.recordDuration,
			Samples:      samples[:n],
		})
	}
	if len(rec.Signals) == 0 {
		return nil, apperrors.EmptyInput("matching edf channels")
	}
	return rec, nil
}
