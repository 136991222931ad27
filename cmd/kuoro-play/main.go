package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mkettu/kuoro"
	"github.com/mkettu/kuoro/midi"
	"github.com/mkettu/kuoro/osc"
	"github.com/mkettu/kuoro/oto"
	"github.com/mkettu/kuoro/version"
)

const sampleRate = 44100

// the built-in demo: an A minor arpeggio cycled through the voice pool
var demoNotes = []byte{57, 60, 64, 69, 72, 69, 64, 60}

const (
	demoStep = 0.25
	demoHold = 0.2
	demoTail = 0.5
)

func main() {
	numVoices := flag.Int("n", 4, "Number of voices in the pool.")
	presetFile := flag.String("p", "", "Preset file (.yml or .json) broadcast to the pool before playing.")
	wavOut := flag.String("w", "", "Render the demo sequence into the given .wav file instead of playing it.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when writing the .wav file.")
	midiIn := flag.Bool("m", false, "Trigger notes from the first MIDI input device instead of the built-in demo.")
	sustain := flag.Float64("s", 0.3, "Sustain duration, in seconds, for MIDI triggered notes.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	synth := osc.NewSynth(sampleRate)
	alloc, err := kuoro.NewAllocator(*numVoices, synth.Factory())
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create the voice pool: %v\n", err)
		os.Exit(1)
	}
	defer alloc.Close()
	if *presetFile != "" {
		if err := applyPresetFile(alloc, *presetFile); err != nil {
			fmt.Fprintf(os.Stderr, "could not apply preset %v: %v\n", *presetFile, err)
			os.Exit(1)
		}
	}
	switch {
	case *wavOut != "":
		err = renderDemo(alloc, synth, *wavOut, *pcm)
	case *midiIn:
		err = playMIDI(alloc, synth, *sustain)
	default:
		err = playDemo(alloc, synth)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func applyPresetFile(alloc *kuoro.Allocator, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("could not read file: %v", err)
	}
	preset, err := kuoro.ParsePreset(data)
	if err != nil {
		return err
	}
	return preset.Apply(alloc)
}

// scheduleDemo issues all the demo triggers up front, using the play offsets
// for timing, and returns the length of the sequence in seconds.
func scheduleDemo(alloc *kuoro.Allocator) (float64, error) {
	offset := 0.0
	for _, note := range demoNotes {
		if err := alloc.SetNote(note); err != nil {
			return 0, err
		}
		if err := alloc.Play(offset, demoHold); err != nil {
			return 0, err
		}
		offset += demoStep
	}
	return offset + demoTail, nil
}

func renderDemo(alloc *kuoro.Allocator, synth *osc.Synth, filename string, pcm16 bool) error {
	length, err := scheduleDemo(alloc)
	if err != nil {
		return fmt.Errorf("could not schedule the demo: %v", err)
	}
	buffer := make(kuoro.AudioBuffer, int(length*sampleRate))
	if err := buffer.Fill(synth); err != nil {
		return fmt.Errorf("could not render the demo: %v", err)
	}
	wav, err := buffer.Wav(pcm16)
	if err != nil {
		return fmt.Errorf("could not generate .wav file: %v", err)
	}
	if err := os.WriteFile(filename, wav, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", filename, err)
	}
	return nil
}

func playDemo(alloc *kuoro.Allocator, synth *osc.Synth) error {
	context, err := oto.NewContext(sampleRate)
	if err != nil {
		return fmt.Errorf("could not acquire audio output: %v", err)
	}
	length, err := scheduleDemo(alloc)
	if err != nil {
		return fmt.Errorf("could not schedule the demo: %v", err)
	}
	player := context.Play(synth)
	defer player.Close()
	time.Sleep(time.Duration(length * float64(time.Second)))
	return nil
}

func playMIDI(alloc *kuoro.Allocator, synth *osc.Synth, sustain float64) error {
	input, err := midi.NewInput()
	if err != nil {
		return err
	}
	defer input.Close()
	if err := input.OpenBy("", true); err != nil {
		return err
	}
	context, err := oto.NewContext(sampleRate)
	if err != nil {
		return fmt.Errorf("could not acquire audio output: %v", err)
	}
	player := context.Play(synth)
	defer player.Close()
	fmt.Fprintf(os.Stderr, "listening for MIDI notes, ctrl-c to quit\n")
	for event := range input.Events() {
		if !event.On || event.Velocity == 0 {
			continue
		}
		if err := alloc.SetNote(event.Note); err != nil {
			return err
		}
		if err := alloc.Play(0, sustain); err != nil {
			return err
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Kuoro command line utility for test driving a voice pool.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
