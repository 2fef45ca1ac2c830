package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/achilleasa/vao/asset"
	"github.com/achilleasa/vao/voxel"
)

// Print the depth mask table for a bucket layout.
func InspectMasks(ctx *cli.Context) error {
	if err := setupLogging(ctx, ""); err != nil {
		return err
	}

	table, err := voxel.BuildDepthMaskTable(ctx.Int("buckets"), ctx.Int("channel-width"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writeMaskTable(&buf, table)
	logger.Noticef("depth mask table (%d buckets, %d channels of %d bits)\n%s", table.Buckets(), table.Channels(), table.ChannelWidth(), buf.String())
	return nil
}

// Print a summary of a slice map snapshot.
func InspectSliceMap(ctx *cli.Context) error {
	if err := setupLogging(ctx, ""); err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return fmt.Errorf("missing slice map snapshot argument")
	}

	res, err := asset.NewResource(ctx.Args().First(), nil)
	if err != nil {
		return err
	}
	defer res.Close()

	sm, err := voxel.ReadSnapshot(res)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writeSliceMapSummary(&buf, sm)
	logger.Noticef("slice map %s\n%s", ctx.Args().First(), buf.String())
	return nil
}

func writeMaskTable(w io.Writer, table *voxel.DepthMaskTable) {
	header := []string{"Bucket", "Bits"}
	for c := 0; c < table.Channels(); c++ {
		header = append(header, fmt.Sprintf("Channel %d", c))
	}

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeader(header)

	hexFmt := fmt.Sprintf("%%0%dx", (table.ChannelWidth()+3)/4)
	for i := 0; i < table.Buckets(); i++ {
		row := []string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", table.BitCount(i))}
		for _, word := range table.Entry(i) {
			row = append(row, fmt.Sprintf(hexFmt, word))
		}
		tw.Append(row)
	}
	tw.Render()
}

func writeSliceMapSummary(w io.Writer, sm *voxel.SliceMap) {
	// Count occupied texels per bucket
	perBucket := make([]int, sm.Buckets)
	nonEmpty := 0
	for y := 0; y < sm.Resolution; y++ {
		for x := 0; x < sm.Resolution; x++ {
			buckets := sm.OccupiedBuckets(x, y)
			if len(buckets) != 0 {
				nonEmpty++
			}
			for _, b := range buckets {
				perBucket[b]++
			}
		}
	}

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeader([]string{"Property", "Value"})
	tw.AppendBulk([][]string{
		{"Resolution", fmt.Sprintf("%dx%d", sm.Resolution, sm.Resolution)},
		{"Buckets", fmt.Sprintf("%d", sm.Buckets)},
		{"Channels", fmt.Sprintf("%d x %d bits", sm.Channels, sm.ChannelWidth)},
		{"Occupied voxels", fmt.Sprintf("%d", sm.OccupiedCount())},
		{"Non-empty texels", fmt.Sprintf("%d", nonEmpty)},
	})
	tw.Render()

	tw = tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeader([]string{"Bucket", "Occupied texels", "Coverage"})
	total := sm.Resolution * sm.Resolution
	for b, count := range perBucket {
		if count == 0 {
			continue
		}
		ratio := float64(count) / float64(total)
		tw.Append([]string{
			fmt.Sprintf("%d", b),
			fmt.Sprintf("%d", count),
			fmt.Sprintf("%-20s %5.1f %%", strings.Repeat("#", int(ratio*20+0.5)), ratio*100),
		})
	}
	tw.Render()
}
