package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// timecodeCmd converts between seconds and the editor's M:SS.CC time codes
var timecodeCmd = &cobra.Command{
	Use:   "timecode",
	Short: "Convert between seconds and M:SS.CC time codes",
}

var timecodeFormatCmd = &cobra.Command{
	Use:     "format [seconds]",
	Short:   "Format seconds as M:SS.CC",
	Example: "  vidspot timecode format 62.5",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid seconds %q: %w", args[0], err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), entities.FormatTimecode(seconds))
		return err
	},
}

var timecodeParseCmd = &cobra.Command{
	Use:     "parse [M:SS.CC]",
	Short:   "Parse an M:SS.CC time code into seconds",
	Example: "  vidspot timecode parse 1:02.50",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := entities.ParseTimecode(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(seconds, 'f', -1, 64))
		return err
	},
}

func init() {
	timecodeCmd.AddCommand(timecodeFormatCmd, timecodeParseCmd)
	rootCmd.AddCommand(timecodeCmd)
}
