// circomnova inspects the binary containers the bridge consumes: the r1cs
// circuit definition and the wtns per-step witness.
package main

import (
	"fmt"
	"os"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/foldware/circomnova/binfile"
)

var (
	r1csFile string
	wtnsFile string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "circomnova",
	Short: "Inspect circom r1cs and wtns containers",
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

var r1csCmd = &cobra.Command{
	Use:   "r1cs",
	Short: "Print circuit definition stats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := binfile.LoadR1CS(r1csFile)
		if err != nil {
			return err
		}
		def := f.Definition()
		log := logger.Logger()
		log.Info().
			Str("field", f.Field.Field().String()).
			Uint32("nWires", f.Header.NWires).
			Uint32("nPubOut", f.Header.NPubOut).
			Uint32("nPubIn", f.Header.NPubIn).
			Uint32("nPrvIn", f.Header.NPrvIn).
			Uint64("nLabels", f.Header.NLabels).
			Uint32("nConstraints", f.Header.NConstraints).
			Int("nAux", def.NumAux).
			Msg(r1csFile)
		return nil
	},
}

var wtnsCmd = &cobra.Command{
	Use:   "wtns",
	Short: "Print witness stats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := binfile.LoadWitness(wtnsFile)
		if err != nil {
			return err
		}
		log := logger.Logger()
		log.Info().
			Str("field", f.Field.Field().String()).
			Uint32("version", f.Version).
			Int("witnessLen", len(f.Values)).
			Msg(wtnsFile)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")

	r1csCmd.Flags().StringVar(&r1csFile, "file", "", "The r1cs circuit definition to inspect.")
	r1csCmd.MarkFlagRequired("file")

	wtnsCmd.Flags().StringVar(&wtnsFile, "file", "", "The wtns witness to inspect.")
	wtnsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(r1csCmd, wtnsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
