package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pocket8/emu"
	"pocket8/emu/keypad"
	"pocket8/emu/quirks"
	"pocket8/emu/screen"
	"pocket8/emu/sound"
)

var runCmd = &cobra.Command{
	Use:   "run path/to/rom",
	Short: "load a ROM and run the virtual machine",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("clock", emu.DefaultClockHz, "target CPU cycles per second")
	runCmd.Flags().Int("debounce", keypad.DefaultDebounce, "stable matrix reads required to flip a key")
	runCmd.Flags().String("profile", "modern", "quirk profile: legacy or modern")
	runCmd.Flags().Float64("scale", 10, "window scale factor")
	runCmd.Flags().Bool("trace", false, "log every executed instruction")

	// per-quirk overrides on top of the profile; only applied when set
	runCmd.Flags().Bool("quirk-load-store", false, "Fx55/Fx65 leave I unchanged")
	runCmd.Flags().Bool("quirk-shift", false, "8xy6/8xyE shift Vx in place")
	runCmd.Flags().Bool("quirk-jump", false, "BNNN takes its offset from Vx")
	runCmd.Flags().Bool("quirk-vf-reset", false, "8xy1/8xy2/8xy3 clear VF")
	runCmd.Flags().Bool("quirk-clip", false, "sprites clip at the edges instead of wrapping")

	for _, name := range []string{"clock", "debounce", "profile", "scale", "trace"} {
		viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}
}

func run(cmd *cobra.Command, args []string) error {
	rom, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	q, err := quirkConfig(cmd)
	if err != nil {
		return err
	}

	vm := emu.New(emu.Config{
		Quirks:   q,
		ClockHz:  viper.GetInt("clock"),
		Debounce: viper.GetInt("debounce"),
		Trace:    viper.GetBool("trace"),
	})
	if err := vm.LoadROM(rom); err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	win, err := screen.New("pocket8 - "+filepath.Base(args[0]), viper.GetFloat64("scale"))
	if err != nil {
		return fmt.Errorf("opening window: %w", err)
	}

	var buzzer emu.Buzzer = emu.NullBuzzer{}
	if b, err := sound.New(); err == nil {
		buzzer = b
	} else {
		log.Printf("buzzer unavailable, running silent: %v", err)
	}

	if err := vm.Run(emu.Drivers{
		Renderer: win,
		Matrix:   win,
		Buzzer:   buzzer,
		Control:  win,
	}); err != nil {
		return fmt.Errorf("VM halted: %w", err)
	}
	return nil
}

// quirkConfig resolves the profile preset, then lays any per-flag overrides
// over it.
func quirkConfig(cmd *cobra.Command) (quirks.Quirks, error) {
	q, err := quirks.Profile(viper.GetString("profile"))
	if err != nil {
		return quirks.Quirks{}, err
	}

	overrides := []struct {
		flag string
		dst  *bool
	}{
		{"quirk-load-store", &q.LoadStore},
		{"quirk-shift", &q.Shift},
		{"quirk-jump", &q.Jump},
		{"quirk-vf-reset", &q.VFReset},
		{"quirk-clip", &q.Clip},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			v, err := cmd.Flags().GetBool(o.flag)
			if err != nil {
				return quirks.Quirks{}, err
			}
			*o.dst = v
		}
	}
	return q, nil
}
