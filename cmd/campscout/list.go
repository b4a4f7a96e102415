package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/campscout/campscout/internal/providers"
)

func newAreasCmd(configPath, providerName *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recreation-areas [search]",
		Short: "List supported recreation areas, optionally filtered by keyword",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, provider, err := loadProvider(*configPath, *providerName)
			if err != nil {
				return err
			}
			search := ""
			if len(args) == 1 {
				search = args[0]
			}
			areas := provider.FindRecreationAreas(search)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLOCATION")
			for _, a := range areas {
				fmt.Fprintf(w, "%d\t%s\t%s\n", a.ID, a.Name, a.Location)
			}
			return w.Flush()
		},
	}
}

func newCampgroundsCmd(configPath, providerName *string) *cobra.Command {
	var recArea int
	cmd := &cobra.Command{
		Use:   "campgrounds",
		Short: "List the reservable campgrounds of a recreation area",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, provider, err := loadProvider(*configPath, *providerName)
			if err != nil {
				return err
			}
			facilities, err := provider.FindFacilities(cmd.Context(), recArea)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FACILITY\tMAP\tNAME\tAREA")
			for _, f := range facilities {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", f.FacilityID, f.MapID, f.Name, f.RecreationArea)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&recArea, "rec-area", 0, "recreation area id (see recreation-areas)")
	cmd.MarkFlagRequired("rec-area")
	return cmd
}

func newEquipmentTypesCmd(configPath, providerName *string) *cobra.Command {
	var recArea int
	cmd := &cobra.Command{
		Use:   "equipment-types",
		Short: "List the equipment categories of a recreation area",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, provider, err := loadProvider(*configPath, *providerName)
			if err != nil {
				return err
			}
			categories, err := provider.ListEquipmentCategories(cmd.Context(), recArea)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMAX SIZE")
			for _, c := range categories {
				size := "-"
				switch {
				case c.MaxSize >= providers.SizeUnbounded:
					size = "unbounded"
				case c.MaxSize > 0:
					size = fmt.Sprintf("%d", c.MaxSize)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.CategoryID, c.Name, size)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&recArea, "rec-area", 0, "recreation area id (see recreation-areas)")
	cmd.MarkFlagRequired("rec-area")
	return cmd
}
