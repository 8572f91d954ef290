package ncm

import "fmt"

// Want selects which outputs Decode produces.
type Want int

const (
	WantAll Want = iota
	WantAudio
	WantImage
)

func ParseWant(s string) (Want, error) {
	switch s {
	case "all":
		return WantAll, nil
	case "audio":
		return WantAudio, nil
	case "image":
		return WantImage, nil
	default:
		return 0, fmt.Errorf("invalid dump target: %s", s)
	}
}

func (w Want) String() string {
	switch w {
	case WantAll:
		return "all"
	case WantAudio:
		return "audio"
	case WantImage:
		return "image"
	default:
		return fmt.Sprintf("Want(%d)", int(w))
	}
}

func (w Want) audio() bool { return w == WantAll || w == WantAudio }
func (w Want) image() bool { return w == WantAll || w == WantImage }
