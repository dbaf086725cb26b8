package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-uvh5/uvdata"
	"github.com/robert-malhotra/go-uvh5/uvh5"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print a summary of a file's metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringP("format", "f", "", "output format: yaml, json or toml")
	_ = viper.BindPFlag("output.format", infoCmd.Flags().Lookup("format"))
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	d, err := uvh5.ReadFile(args[0], uvh5.WithData(false), uvh5.WithLogger(logger))
	if err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), summarize(d), cfg.Output.Format)
}

type location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" toml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude" toml:"longitude"`
	Altitude  float64 `json:"altitude" yaml:"altitude" toml:"altitude"`
}

type summary struct {
	Telescope      string              `json:"telescope" yaml:"telescope" toml:"telescope"`
	Instrument     string              `json:"instrument" yaml:"instrument" toml:"instrument"`
	Object         string              `json:"object" yaml:"object" toml:"object"`
	Location       location            `json:"location" yaml:"location" toml:"location"`
	Nbls           uint32              `json:"nbls" yaml:"nbls" toml:"nbls"`
	Nblts          uint32              `json:"nblts" yaml:"nblts" toml:"nblts"`
	Ntimes         uint32              `json:"ntimes" yaml:"ntimes" toml:"ntimes"`
	Nfreqs         uint32              `json:"nfreqs" yaml:"nfreqs" toml:"nfreqs"`
	Npols          uint8               `json:"npols" yaml:"npols" toml:"npols"`
	Nspws          uint32              `json:"nspws" yaml:"nspws" toml:"nspws"`
	Nphases        uint32              `json:"nphases" yaml:"nphases" toml:"nphases"`
	NantsData      uint32              `json:"nants_data" yaml:"nants_data" toml:"nants_data"`
	NantsTelescope uint32              `json:"nants_telescope" yaml:"nants_telescope" toml:"nants_telescope"`
	VisUnits       uvdata.VisUnit      `json:"vis_units" yaml:"vis_units" toml:"vis_units"`
	PhaseType      uvdata.PhaseType    `json:"phase_type" yaml:"phase_type" toml:"phase_type"`
	BltOrder       uvdata.BltOrder     `json:"blt_order" yaml:"blt_order" toml:"blt_order"`
	XOrientation   uvdata.Orientation  `json:"x_orientation" yaml:"x_orientation" toml:"x_orientation"`
	EqConvention   uvdata.EqConvention `json:"eq_coeffs_convention" yaml:"eq_coeffs_convention" toml:"eq_coeffs_convention"`
	FreqMin        float64             `json:"freq_min_hz" yaml:"freq_min_hz" toml:"freq_min_hz"`
	FreqMax        float64             `json:"freq_max_hz" yaml:"freq_max_hz" toml:"freq_max_hz"`
	PhaseCenters   []string            `json:"phase_centers" yaml:"phase_centers" toml:"phase_centers"`
	History        string              `json:"history" yaml:"history" toml:"history"`
}

func summarize(d *uvdata.Float64) summary {
	m, a := d.Meta, d.Arrays
	lat, lon, alt := m.TelescopeLocationLatLonAltDegrees()
	s := summary{
		Telescope:      m.TelescopeName,
		Instrument:     m.Instrument,
		Object:         m.ObjectName,
		Location:       location{Latitude: lat, Longitude: lon, Altitude: alt},
		Nbls:           m.Nbls,
		Nblts:          m.Nblts,
		Ntimes:         m.Ntimes,
		Nfreqs:         m.Nfreqs,
		Npols:          m.Npols,
		Nspws:          m.Nspws,
		Nphases:        m.Nphases,
		NantsData:      m.NantsData,
		NantsTelescope: m.NantsTelescope,
		VisUnits:       m.VisUnits,
		PhaseType:      m.PhaseType,
		BltOrder:       m.BltOrder,
		XOrientation:   m.XOrientation,
		EqConvention:   m.EqCoeffsConvention,
		PhaseCenters:   a.PhaseCenterCatalog.Names(),
		History:        m.History,
	}
	if len(a.FreqArray) > 0 {
		s.FreqMin = slices.Min(a.FreqArray)
		s.FreqMax = slices.Max(a.FreqArray)
	}
	return s
}

func writeSummary(w io.Writer, s summary, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "toml":
		return toml.NewEncoder(w).Encode(s)
	}
	return fmt.Errorf("unsupported output format %q", format)
}
