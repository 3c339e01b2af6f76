package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-hub/internal/games/rockandroll"
	"github.com/vovakirdan/arcade-hub/internal/platform/tui"
)

var (
	flagBPM   int
	flagBeats int
	flagLead  float64
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Check or generate Rock & Roll note charts",
	Long: `Work with JSON note charts for Rock & Roll.

A chart is {"bpm": 120, "notes": [{"time": 1.5, "lane": 0}, ...]} with
times in seconds and lanes 0-4.

Examples:
  arcade pattern check ./chart.json
  arcade pattern gen ./chart.json --bpm 140 --beats 64
  arcade pattern edit ./chart.json --song hot`,
}

var patternCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a chart and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		p, err := rockandroll.ReadPattern(args[0])
		if err != nil {
			return err
		}
		length := time.Duration(p.Duration() * float64(time.Second)).Round(time.Millisecond)
		fmt.Printf("%s: %d notes at %d BPM, %s long\n", args[0], len(p.Notes), p.BPM, length)
		return nil
	},
}

var patternGenCmd = &cobra.Command{
	Use:   "gen <file>",
	Short: "Generate a random one-note-per-beat chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		seed := flagSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		p := rockandroll.Generate(flagBPM, flagBeats, flagLead, seed)
		if err := rockandroll.WritePattern(args[0], p); err != nil {
			return err
		}
		fmt.Printf("Wrote %d notes at %d BPM to %s\n", len(p.Notes), p.BPM, args[0])
		return nil
	},
}

var patternEditCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Record or edit a chart against a running playhead",
	Long: `Open the chart editor on <file>, loading it when it exists.

Space starts the playhead and 1-5 stamp a note in that lane at the
current time. x toggles delete mode, +/- change the tempo, C clears
the chart and s saves it back to <file>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := tui.EditorOptions{Path: args[0], BPM: flagBPM, TickRate: flagFPS}
		if flagSong != "" {
			song, ok := rockandroll.FindSong(flagSong)
			if !ok {
				return fmt.Errorf("no song matches %q", flagSong)
			}
			opts.Song = song.File
			if !cmd.Flags().Changed("bpm") {
				opts.BPM = song.BPM
			}
		}
		sound := openSound()
		defer sound.Close()
		opts.Sound = sound
		return tui.RunEditor(opts)
	},
}

func init() {
	patternGenCmd.Flags().IntVar(&flagBPM, "bpm", 120, "Tempo in beats per minute")
	patternGenCmd.Flags().IntVar(&flagBeats, "beats", 32, "Number of notes")
	patternGenCmd.Flags().Float64Var(&flagLead, "lead", 2, "Seconds before the first note")

	patternEditCmd.Flags().IntVar(&flagBPM, "bpm", 120, "Tempo of a new chart")
	patternEditCmd.Flags().StringVar(&flagSong, "song", "", "Song to play along (name or unique prefix)")

	patternCmd.AddCommand(patternCheckCmd)
	patternCmd.AddCommand(patternEditCmd)
	patternCmd.AddCommand(patternGenCmd)
}
