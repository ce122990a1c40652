package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

var _ = Describe("MergeConfigurations", func() {
	It("returns the defaults without warnings when nothing is given", func() {
		result := MergeConfigurations(nil, nil)
		Expect(result.Config).To(Equal(DefaultConfig()))
		Expect(result.Warnings).To(BeEmpty())
		Expect(result.Sources).To(HaveKeyWithValue("labels.uploadText", SourceDefault))
	})

	It("lets props win over the file on shared leaves", func() {
		file := map[string]any{
			"defaults": map[string]any{"variant": "button", "size": "lg"},
			"styling":  map[string]any{"colors": map[string]any{"primary": "#000000"}},
		}
		props := map[string]any{
			"defaults": map[string]any{"variant": "preview"},
			"styling":  map[string]any{"colors": map[string]any{"primary": "#ffffff"}},
		}

		result := MergeConfigurations(file, props)
		Expect(result.Config.Defaults.Variant).To(Equal(config.VariantPreview))
		Expect(result.Config.Defaults.Size).To(Equal(config.SizeLarge))
		Expect(result.Config.Styling.Colors.Primary).To(Equal("#ffffff"))

		Expect(result.Sources).To(HaveKeyWithValue("defaults.variant", SourceProps))
		Expect(result.Sources).To(HaveKeyWithValue("defaults.size", SourceFile))
		Expect(result.Sources).To(HaveKeyWithValue("defaults.radius", SourceDefault))
	})

	It("does not let nil props erase file values", func() {
		file := map[string]any{"defaults": map[string]any{"variant": "button"}}
		props := map[string]any{"defaults": map[string]any{"variant": nil}}

		result := MergeConfigurations(file, props)
		Expect(result.Config.Defaults.Variant).To(Equal(config.VariantButton))
		Expect(result.Sources).To(HaveKeyWithValue("defaults.variant", SourceFile))
	})

	It("warns about an invalid result but still returns it", func() {
		props := map[string]any{"animations": map[string]any{"duration": 9000}}

		result := MergeConfigurations(nil, props)
		Expect(result.Config.Animations.Duration).To(Equal(9000))
		Expect(result.Warnings).To(ConsistOf(
			"Merged configuration has validation errors: duration must be between 0 and 5000",
		))
	})

	It("warns about unknown sections", func() {
		result := MergeConfigurations(map[string]any{"theme": "dark"}, nil)
		Expect(result.Warnings).To(ContainElement(`file config has unknown section "theme"`))
	})

	It("falls back to the defaults when the result cannot be decoded", func() {
		props := map[string]any{"features": map[string]any{"preview": "sometimes"}}

		result := MergeConfigurations(nil, props)
		Expect(result.Config).To(Equal(DefaultConfig()))
		Expect(result.Warnings).To(HaveLen(2))
		Expect(result.Warnings[1]).To(HavePrefix("Merged configuration could not be decoded, using defaults"))
	})

	It("never wraps out-of-range integers into the result", func() {
		file := map[string]any{"defaults": map[string]any{"maxSize": 1e20}}

		result := MergeConfigurations(file, nil)
		Expect(result.Config).To(Equal(DefaultConfig()))
		Expect(result.Warnings).To(ConsistOf(
			"Merged configuration has validation errors: maxSize must be at most 9007199254740991",
			HavePrefix("Merged configuration could not be decoded, using defaults"),
		))
	})
})

var _ = Describe("MergeConfigurationsWithConflictResolution", func() {
	It("applies sources in ascending priority and records conflicts", func() {
		result := MergeConfigurationsWithConflictResolution([]PrioritizedSource{
			{
				Source:   "cli",
				Priority: 30,
				Config:   map[string]any{"defaults": map[string]any{"variant": "preview"}},
			},
			{
				Source:   SourceFile,
				Priority: 10,
				Config: map[string]any{"defaults": map[string]any{
					"variant": "button",
					"size":    "md",
				}},
			},
			{
				Source:   SourceProps,
				Priority: 20,
				Config:   map[string]any{"defaults": map[string]any{"variant": "image-only"}},
			},
		})

		Expect(result.Config.Defaults.Variant).To(Equal(config.VariantPreview))
		Expect(result.Sources).To(HaveKeyWithValue("defaults.variant", Source("cli")))
		Expect(result.Conflicts).To(Equal([]Conflict{{
			Path: "defaults.variant",
			Values: []ConflictValue{
				{Source: SourceDefault, Value: "dropzone"},
				{Source: SourceFile, Value: "button"},
				{Source: SourceProps, Value: "image-only"},
				{Source: "cli", Value: "preview"},
			},
		}}))
	})

	It("keeps input order for equal priorities", func() {
		result := MergeConfigurationsWithConflictResolution([]PrioritizedSource{
			{Source: "first", Config: map[string]any{"styling": map[string]any{"theme": "dark"}}},
			{Source: "second", Config: map[string]any{"styling": map[string]any{"theme": "light"}}},
		})

		Expect(result.Config.Styling.Theme).To(Equal(config.ThemeLight))
		Expect(result.Conflicts).To(HaveLen(1))
		Expect(result.Conflicts[0].Values).To(HaveLen(3))
	})

	It("records nothing for values equal to the current ones", func() {
		result := MergeConfigurationsWithConflictResolution([]PrioritizedSource{
			{Source: SourceFile, Config: map[string]any{"defaults": map[string]any{"variant": "dropzone"}}},
		})

		Expect(result.Conflicts).To(BeEmpty())
		Expect(result.Sources).To(HaveKeyWithValue("defaults.variant", SourceFile))
	})

	It("skips sources without a config", func() {
		result := MergeConfigurationsWithConflictResolution([]PrioritizedSource{{Source: SourceFile}})

		Expect(result.Config).To(Equal(DefaultConfig()))
		Expect(result.Conflicts).To(BeEmpty())
	})
})
