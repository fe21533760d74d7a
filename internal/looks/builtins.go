package looks

import "gradectl/internal/cdl"

// Builtins returns the seeded look library. Values mirror widely used
// grading starting points; they are deliberately conservative so they read
// well on unmanaged footage.
func Builtins() []Look {
	return []Look{
		{
			Name:        "teal-orange",
			Description: "Hollywood blockbuster standard",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1.1, 0.98, 0.92},
				Offset:     [3]float64{0.02, 0, 0.05},
				Power:      [3]float64{0.9, 0.95, 1.05},
				Saturation: 1.2,
			},
		},
		{
			Name:        "netflix",
			Description: "Warm midtones, deep shadows, slightly desaturated blues",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1.05, 0.98, 0.95},
				Offset:     [3]float64{-0.03, -0.02, 0.01},
				Power:      [3]float64{0.95, 0.97, 1},
				Saturation: 1.08,
			},
		},
		{
			Name:        "arri-alexa",
			Description: "Clean, natural, slightly desaturated",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1, 1, 1},
				Offset:     [3]float64{0, 0, 0},
				Power:      [3]float64{1, 1, 1},
				Saturation: 0.95,
			},
		},
		{
			Name:        "kodak-5219",
			Description: "Film stock emulation, warm and contrasty",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1.02, 1, 0.98},
				Offset:     [3]float64{0.01, 0, 0.02},
				Power:      [3]float64{0.92, 0.95, 0.98},
				Saturation: 1.05,
			},
		},
		{
			Name:        "documentary",
			Description: "Low contrast, natural colors",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1, 1, 1},
				Offset:     [3]float64{0, 0, 0},
				Power:      [3]float64{1.05, 1.05, 1.05},
				Saturation: 0.9,
			},
		},
		{
			Name:        "music-video",
			Description: "High saturation, strong contrast",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1.15, 1.1, 1.05},
				Offset:     [3]float64{0, 0, 0},
				Power:      [3]float64{0.75, 0.8, 0.85},
				Saturation: 1.4,
			},
		},
		{
			Name:        "bleach-bypass",
			Description: "Desaturated, high contrast, gritty",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1.1, 1.1, 1.1},
				Offset:     [3]float64{0, 0, 0},
				Power:      [3]float64{0.85, 0.85, 0.85},
				Saturation: 0.5,
			},
		},
		{
			Name:        "vintage",
			Description: "Faded, warm, nostalgic",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1.05, 1, 0.95},
				Offset:     [3]float64{0.05, 0.03, 0.02},
				Power:      [3]float64{0.98, 0.98, 1.02},
				Saturation: 0.85,
			},
		},
	}
}
