package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zsiec/smpte/pkg/timecode"
	"github.com/zsiec/smpte/pkg/version"
)

func main() {
	var (
		fps         uint
		drop        string
		start       string
		userBits    uint
		withField   bool
		showVersion bool
	)

	flag.UintVar(&fps, "fps", 30, "Nominal frame rate")
	flag.StringVar(&drop, "drop", "auto", "Drop-frame mode: auto, true or false")
	flag.StringVar(&start, "start", "", "Start timecode, e.g. 01:00:00;00 (separator sets the mode)")
	flag.UintVar(&userBits, "userbits", 0, "User bits to display")
	flag.BoolVar(&withField, "field", false, "Show the .0/.1 field suffix at field rates")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetInfo().String())
		os.Exit(0)
	}

	tc, err := startTimecode(fps, drop, start)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(err.Error()))
		os.Exit(2)
	}
	tc.SetUserBits(uint32(userBits))

	p := tea.NewProgram(newModel(tc, withField), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tcview: %v\n", err)
		os.Exit(1)
	}
}

// startTimecode resolves the flags into the initial timecode. A start text
// decides drop-frame mode by its separator unless -drop says otherwise, in
// which case the two must agree.
func startTimecode(fps uint, drop, start string) (*timecode.Timecode, error) {
	if fps == 0 || fps > 0xffff {
		return nil, fmt.Errorf("fps %d out of range", fps)
	}
	rate := uint16(fps)

	var explicit *bool
	switch strings.ToLower(drop) {
	case "", "auto":
	case "true", "yes", "df":
		v := true
		explicit = &v
	case "false", "no", "ndf":
		v := false
		explicit = &v
	default:
		return nil, fmt.Errorf("invalid -drop value %q", drop)
	}

	if start == "" {
		dropFrame := timecode.DefaultDropFrame(rate)
		if explicit != nil {
			dropFrame = *explicit
		}
		return timecode.FromCounter(rate, dropFrame, 0)
	}

	tc, err := timecode.Parse(rate, start)
	if err != nil {
		return nil, err
	}
	if explicit != nil && *explicit != tc.IsDropFrame() {
		return nil, fmt.Errorf("start %q disagrees with -drop=%s", start, drop)
	}
	return tc, nil
}
