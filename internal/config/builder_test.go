package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

var _ = Describe("Builder", func() {
	var b *Builder

	BeforeEach(func() {
		b = NewBuilder()
	})

	It("builds the defaults when nothing is set", func() {
		cfg, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(DefaultConfig()))
		Expect(b.BuildPartial()).To(BeEmpty())
	})

	It("chains setters onto the defaults", func() {
		cfg, err := b.
			Variant(config.VariantButton).
			Size(config.SizeLarge).
			Radius(config.RadiusFull).
			Theme(config.ThemeDark).
			MaxSize(5 << 20).
			MaxFiles(3).
			Multiple(true).
			AllowedTypes("image/png", "image/jpeg").
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Defaults.Variant).To(Equal(config.VariantButton))
		Expect(cfg.Defaults.Size).To(Equal(config.SizeLarge))
		Expect(cfg.Defaults.Radius).To(Equal(config.RadiusFull))
		Expect(cfg.Defaults.Theme).To(Equal(config.ThemeDark))
		Expect(cfg.Styling.Theme).To(Equal(config.ThemeDark))
		Expect(cfg.Defaults.MaxSize).To(Equal(int64(5 << 20)))
		Expect(cfg.Validation.MaxSize).To(Equal(int64(5 << 20)))
		Expect(cfg.Defaults.MaxFiles).To(Equal(3))
		Expect(cfg.Validation.MaxFiles).To(Equal(3))
		Expect(cfg.Defaults.Multiple).To(BeTrue())
		Expect(cfg.Validation.AllowedTypes).To(Equal([]string{"image/png", "image/jpeg"}))
		Expect(cfg.Validation.AllowedExtensions).To(Equal(DefaultValidationConfig().AllowedExtensions))
	})

	It("merges partial color tokens", func() {
		cfg, err := b.Colors(config.ColorsConfig{Primary: "#000000"}).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Styling.Colors.Primary).To(Equal("#000000"))
		Expect(cfg.Styling.Colors.Secondary).To(Equal(DefaultStylingConfig().Colors.Secondary))
	})

	It("merges labels and toggles by key", func() {
		cfg, err := b.
			Labels(map[string]string{"uploadText": "Drop it"}).
			Features(map[string]bool{"preview": false}).
			Accessibility(map[string]bool{"highContrast": true}).
			Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Labels.UploadText).To(Equal("Drop it"))
		Expect(cfg.Labels.DragText).To(Equal(DefaultLabelsConfig().DragText))
		Expect(cfg.Features.Preview).To(BeFalse())
		Expect(cfg.Features.DragAndDrop).To(BeTrue())
		Expect(cfg.Accessibility.HighContrast).To(BeTrue())
	})

	It("sets image dimension bounds", func() {
		cfg, err := b.MaxDimensions(1920, 1080).MinDimensions(100, 50).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Validation.MaxWidth).To(HaveValue(Equal(1920)))
		Expect(cfg.Validation.MaxHeight).To(HaveValue(Equal(1080)))
		Expect(cfg.Validation.MinWidth).To(HaveValue(Equal(100)))
		Expect(cfg.Validation.MinHeight).To(HaveValue(Equal(50)))
	})

	It("sets arbitrary dotted paths", func() {
		cfg, err := b.Set("styling.borders.width", 4).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Styling.Borders.Width).To(Equal(4))
		Expect(cfg.Styling.Borders.Style).To(Equal(DefaultStylingConfig().Borders.Style))
	})

	It("defers validation until asked", func() {
		b.Set("animations.duration", 9000)

		cfg, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Animations.Duration).To(Equal(9000))

		result := b.Validate()
		Expect(result.IsValid).To(BeFalse())
		Expect(result.Errors[0].Path).To(Equal("animations.duration"))
	})

	It("validates a valid accumulation", func() {
		Expect(b.Variant(config.VariantPreview).Validate().IsValid).To(BeTrue())
	})

	It("returns a detached partial", func() {
		b.Variant(config.VariantButton)

		partial := b.BuildPartial()
		Expect(partial).To(Equal(map[string]any{
			"defaults": map[string]any{"variant": "button"},
		}))

		partial["defaults"].(map[string]any)["variant"] = "preview"
		Expect(b.BuildPartial()).To(HaveKeyWithValue("defaults", HaveKeyWithValue("variant", "button")))
	})

	It("forgets everything on Reset", func() {
		b.Variant(config.VariantButton).MaxFiles(4).Reset()
		Expect(b.BuildPartial()).To(BeEmpty())
	})

	It("produces a partial usable as a merge layer", func() {
		partial := b.Size(config.SizeSmall).BuildPartial()

		result := MergeConfigurations(map[string]any{"defaults": map[string]any{"size": "lg"}}, partial)
		Expect(result.Config.Defaults.Size).To(Equal(config.SizeSmall))
	})

	It("refuses to build integers that would lose precision", func() {
		_, err := b.Set("defaults.maxSize", 1.5).Build()
		Expect(err).To(MatchError(ContainSubstring("fractional part")))

		_, err = NewBuilder().Set("defaults.maxFiles", 1e19).Build()
		Expect(err).To(MatchError(ContainSubstring("overflows")))
	})

	It("reports lossy integers when validating", func() {
		result := b.Set("defaults.maxSize", 1e20).Validate()
		Expect(paths(result)).To(Equal([]string{"defaults.maxSize"}))
	})

	Context("when an accumulated value cannot be serialized", func() {
		It("turns a panic into a root error", func() {
			result := b.Set("labels", explodingValue{}).Validate()
			expectRootFailure(result)
			Expect(result.Errors[0].Message).To(ContainSubstring("marshal exploded"))
		})

		It("turns a serialization error into a root error", func() {
			result := b.Set("labels", unserializableValue{}).Validate()
			expectRootFailure(result)
			Expect(result.Errors[0].Message).To(ContainSubstring("cannot serialize"))
		})
	})
})
