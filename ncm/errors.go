package ncm

import "fmt"

// Stage is a step of the decode pipeline. The order is fixed by the container layout.
type Stage int

const (
	StageStart Stage = iota
	StageHeaderValidated
	StageKeyDerived
	StageMetadataParsed
	StageImageExtracted
	StageAudioDecoded
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageHeaderValidated:
		return "header"
	case StageKeyDerived:
		return "key"
	case StageMetadataParsed:
		return "metadata"
	case StageImageExtracted:
		return "image"
	case StageAudioDecoded:
		return "audio"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// DecodeError reports the stage that could not be reached and why.
type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed decoding %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
