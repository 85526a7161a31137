package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pocket8 [command]",
	Short: "CHIP-8 virtual machine for the pocket handheld",
	Long: "pocket8 is the CHIP-8 interpreter core of a handheld console: a quirk-configurable\n" +
		"fetch-decode-execute loop driving a 64x32 framebuffer, a debounced 4x4 key matrix\n" +
		"and 60Hz delay/sound timers. On the desktop the physical display, keys and buzzer\n" +
		"are stood in for by a window, the keyboard and the speaker.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pocket8.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pocket8" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".pocket8")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
