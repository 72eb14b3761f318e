// Package config holds the tuning parameters for the fit pipeline. Every
// free constant of the contact, phase, and parsing heuristics lives here so
// a fit can be reproduced or swept without touching code.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Tuning is the root configuration for the fit pipeline. Fields omitted
// from a JSON tuning file retain their default values, so partial configs
// are safe.
type Tuning struct {
	// Curve parser params
	FBXTimeScale float64 `json:"fbx_time_scale"` // FBX ktime ticks per second
	MinDuration  float64 `json:"min_duration"`   // floor for degenerate clips, seconds

	// Contact detector params
	HeightPercentileLow   float64 `json:"height_percentile_low"`
	HeightPercentileHigh  float64 `json:"height_percentile_high"`
	HeightRangeFloor      float64 `json:"height_range_floor"`
	HeightThresholdFactor float64 `json:"height_threshold_factor"`
	HeightThresholdFloor  float64 `json:"height_threshold_floor"`
	VelThresholdFactor    float64 `json:"vel_threshold_factor"`
	VelThresholdFloor     float64 `json:"vel_threshold_floor"`
	SmoothHalfWindow      int     `json:"smooth_half_window"` // samples each side

	// Phase estimator params
	ContactThreshold     float64 `json:"contact_threshold"`
	ContactThresholdFrac float64 `json:"contact_threshold_frac"` // of peak, when peak < threshold
	SkipGapFactor        float64 `json:"skip_gap_factor"`        // every-other-event period preference
	MinimaDepthFraction  float64 `json:"minima_depth_fraction"`
	MinimaSpacingFactor  float64 `json:"minima_spacing_factor"` // multiples of the sample interval
	MinimaRangeFloor     float64 `json:"minima_range_floor"`
	MinimaRefineFraction float64 `json:"minima_refine_fraction"` // of clip duration
	AutocorrMinLagSec    float64 `json:"autocorr_min_lag_sec"`
	AutocorrMaxLagFrac   float64 `json:"autocorr_max_lag_frac"`
	AutocorrVarFloor     float64 `json:"autocorr_var_floor"`
	AutocorrTieFraction  float64 `json:"autocorr_tie_fraction"` // of best correlation
	StrideRatioLow       float64 `json:"stride_ratio_low"`
	StrideRatioHigh      float64 `json:"stride_ratio_high"`

	// Kinematics params. The yaw fix and in-place pinning are corrections
	// for the observed asset convention, not universal truths; keep them
	// configurable for other skeletons.
	RootYawFixDegrees float64 `json:"root_yaw_fix_degrees"`
	LeftFootBone      string  `json:"left_foot_bone"`
	RightFootBone     string  `json:"right_foot_bone"`
}

// Defaults returns the canonical tuning values. These reproduce the fits
// shipped with the original Mixamo walking clips.
func Defaults() Tuning {
	return Tuning{
		FBXTimeScale: 46186158000,
		MinDuration:  0.001,

		HeightPercentileLow:   0.05,
		HeightPercentileHigh:  0.95,
		HeightRangeFloor:      1e-4,
		HeightThresholdFactor: 0.15,
		HeightThresholdFloor:  0.01,
		VelThresholdFactor:    0.25,
		VelThresholdFloor:     0.05,
		SmoothHalfWindow:      5,

		ContactThreshold:     0.5,
		ContactThresholdFrac: 0.6,
		SkipGapFactor:        1.5,
		MinimaDepthFraction:  0.25,
		MinimaSpacingFactor:  10,
		MinimaRangeFloor:     1e-4,
		MinimaRefineFraction: 0.75,
		AutocorrMinLagSec:    0.2,
		AutocorrMaxLagFrac:   0.9,
		AutocorrVarFloor:     1e-6,
		AutocorrTieFraction:  0.9,
		StrideRatioLow:       1.8,
		StrideRatioHigh:      2.2,

		RootYawFixDegrees: 180,
		LeftFootBone:      "mixamorig:LeftFoot",
		RightFootBone:     "mixamorig:RightFoot",
	}
}

// Load reads a JSON tuning file and merges it over the defaults. Fields
// absent from the file keep their default values.
func Load(path string) (Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Tuning{}, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}

	cfg := Defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot work with.
func (t Tuning) Validate() error {
	if t.FBXTimeScale <= 0 {
		return fmt.Errorf("fbx_time_scale must be positive, got %v", t.FBXTimeScale)
	}
	if t.MinDuration <= 0 {
		return fmt.Errorf("min_duration must be positive, got %v", t.MinDuration)
	}
	if t.HeightPercentileLow < 0 || t.HeightPercentileHigh > 1 || t.HeightPercentileLow >= t.HeightPercentileHigh {
		return fmt.Errorf("height percentiles must satisfy 0 <= low < high <= 1, got [%v, %v]",
			t.HeightPercentileLow, t.HeightPercentileHigh)
	}
	if t.SmoothHalfWindow < 0 {
		return fmt.Errorf("smooth_half_window must be non-negative, got %d", t.SmoothHalfWindow)
	}
	if t.ContactThreshold <= 0 || t.ContactThreshold > 1 {
		return fmt.Errorf("contact_threshold must be in (0, 1], got %v", t.ContactThreshold)
	}
	if t.AutocorrMaxLagFrac <= 0 || t.AutocorrMaxLagFrac >= 1 {
		return fmt.Errorf("autocorr_max_lag_frac must be in (0, 1), got %v", t.AutocorrMaxLagFrac)
	}
	if t.StrideRatioLow <= 0 || t.StrideRatioLow >= t.StrideRatioHigh {
		return fmt.Errorf("stride ratio window must satisfy 0 < low < high, got [%v, %v]",
			t.StrideRatioLow, t.StrideRatioHigh)
	}
	if t.LeftFootBone == "" || t.RightFootBone == "" {
		return fmt.Errorf("foot bone names must be non-empty")
	}
	return nil
}
