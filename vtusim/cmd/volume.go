package cmd

import (
	"fmt"
	"sort"

	"github.com/sarchlab/vtusim/voxel"
	"github.com/spf13/cobra"
)

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Create and inspect volume files.",
}

var volumeGenCmd = &cobra.Command{
	Use:   "gen FILE",
	Short: "Generate a terrain volume from --seed and --radius.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		v, err := loadVolume("")
		if err != nil {
			return err
		}

		if err := voxel.SaveVolumeFile(args[0], v); err != nil {
			return err
		}

		fmt.Printf("Volume '%s' written: radius %d, %d solid cells\n",
			args[0], v.Radius(), v.SolidCount())

		return nil
	},
}

var volumeInfoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print the size and the block histogram of a volume file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		v, err := voxel.LoadVolumeFile(args[0])
		if err != nil {
			return err
		}

		counts := make(map[voxel.Block]int)
		v.SolidCells(func(_ voxel.Coord, b voxel.Block) {
			counts[b]++
		})

		blocks := make([]voxel.Block, 0, len(counts))
		for b := range counts {
			blocks = append(blocks, b)
		}

		sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })

		fmt.Printf("radius %d, side %d, %d solid cells\n",
			v.Radius(), v.Side(), v.SolidCount())

		for _, b := range blocks {
			fmt.Printf("  %-12s %d\n", b, counts[b])
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(volumeCmd)
	volumeCmd.AddCommand(volumeGenCmd)
	volumeCmd.AddCommand(volumeInfoCmd)
}
