package config

import (
	"math"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

var errCannotSerialize = errors.New("cannot serialize")

// explodingValue panics while being serialized.
type explodingValue struct{}

func (explodingValue) MarshalJSON() ([]byte, error) {
	panic("marshal exploded")
}

// unserializableValue fails to serialize.
type unserializableValue struct{}

func (unserializableValue) MarshalJSON() ([]byte, error) {
	return nil, errCannotSerialize
}

// expectRootFailure asserts a single root error produced by a failure
// outside the candidate's content.
func expectRootFailure(result ValidationResult) {
	GinkgoHelper()

	Expect(result.IsValid).To(BeFalse())
	Expect(result.Errors).To(HaveLen(1))
	Expect(result.Errors[0].Path).To(Equal(config.PathRoot))
	Expect(result.Errors[0].Message).To(HavePrefix("Validation error: "))
}

func paths(result ValidationResult) []string {
	out := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		out = append(out, e.Path)
	}

	return out
}

var _ = Describe("ValidateConfig", func() {
	Context("with the defaults", func() {
		It("accepts the typed default configuration", func() {
			result := ValidateConfig(DefaultConfig())
			Expect(result.IsValid).To(BeTrue())
			Expect(result.Errors).To(BeEmpty())
			Expect(result.Err()).NotTo(HaveOccurred())
		})

		It("accepts the default fragment tree", func() {
			Expect(IsValid(DefaultMap())).To(BeTrue())
		})
	})

	Context("with non-object candidates", func() {
		DescribeTable("reports a single root error",
			func(candidate any) {
				result := ValidateConfig(candidate)
				Expect(result.IsValid).To(BeFalse())
				Expect(result.Errors).To(HaveLen(1))
				Expect(result.Errors[0].Path).To(Equal(config.PathRoot))
				Expect(result.Errors[0].Message).To(Equal("Configuration must be an object"))
			},
			Entry("nil", nil),
			Entry("string", "dropzone"),
			Entry("number", 42),
			Entry("slice", []int{1, 2}),
			Entry("nil map", map[string]any(nil)),
		)
	})

	It("reports every missing section", func() {
		result := ValidateConfig(map[string]any{})
		Expect(result.IsValid).To(BeFalse())
		Expect(paths(result)).To(Equal(config.Sections))
		Expect(result.Errors[0].Message).To(Equal("defaults is missing"))
	})

	It("treats a nil section as missing", func() {
		m := DefaultMap()
		m[config.SectionLabels] = nil

		result := ValidateConfig(m)
		Expect(paths(result)).To(Equal([]string{"labels"}))
	})

	It("rejects a section that is not an object", func() {
		m := DefaultMap()
		m[config.SectionFeatures] = []any{true}

		result := ValidateConfig(m)
		Expect(result.Errors).To(HaveLen(1))
		Expect(result.Errors[0].Message).To(Equal("features must be an object"))
	})

	It("reports the path of an invalid enum value", func() {
		m := DefaultMap()
		section(m, config.SectionDefaults)["variant"] = "not-a-variant"

		result := ValidateConfig(m)
		Expect(result.IsValid).To(BeFalse())
		Expect(paths(result)).To(ContainElement("defaults.variant"))
		Expect(result.Errors[0].Message).To(HavePrefix(`Invalid variant "not-a-variant". Must be one of: button`))
		Expect(result.Errors[0].Value).To(Equal("not-a-variant"))
	})

	It("validates typed configurations", func() {
		cfg := DefaultConfig()
		cfg.Styling.Theme = "sepia"

		result := ValidateConfig(cfg)
		Expect(paths(result)).To(Equal([]string{"styling.theme"}))
	})

	It("collects errors across sections without stopping", func() {
		m := DefaultMap()
		section(m, config.SectionDefaults)["variant"] = "bogus"
		section(m, config.SectionValidation)["maxSize"] = -1
		section(section(m, config.SectionStyling), "colors")["primary"] = "blue"
		section(m, config.SectionLabels)["uploadText"] = 42
		section(m, config.SectionFeatures)["preview"] = "yes"
		section(m, config.SectionAnimations)["duration"] = 9000
		delete(section(m, config.SectionAccessibility), "highContrast")

		result := ValidateConfig(m)
		Expect(result.IsValid).To(BeFalse())
		Expect(len(result.Errors)).To(BeNumerically(">=", 7))
		Expect(paths(result)).To(ContainElements(
			"defaults.variant",
			"validation.maxSize",
			"styling.colors.primary",
			"labels.uploadText",
			"features.preview",
			"animations.duration",
			"accessibility.highContrast",
		))
	})

	DescribeTable("animation duration bounds",
		func(duration any, valid bool) {
			m := DefaultMap()
			section(m, config.SectionAnimations)["duration"] = duration

			Expect(IsValid(m)).To(Equal(valid))
		},
		Entry("zero", 0, true),
		Entry("upper bound", 5000, true),
		Entry("above upper bound", 5001, false),
		Entry("negative", -1, false),
		Entry("not a number", "fast", false),
		Entry("NaN", math.NaN(), false),
	)

	It("rejects infinite sizes", func() {
		m := DefaultMap()
		section(m, config.SectionDefaults)["maxSize"] = math.Inf(1)

		result := ValidateConfig(m)
		Expect(result.Errors).To(HaveLen(1))
		Expect(result.Errors[0].Message).To(Equal("maxSize must be a number"))
	})

	It("requires maxFiles to be at least one", func() {
		m := DefaultMap()
		section(m, config.SectionValidation)["maxFiles"] = 0

		result := ValidateConfig(m)
		Expect(result.Errors).To(HaveLen(1))
		Expect(result.Errors[0].Message).To(Equal("maxFiles must be at least 1"))
	})

	It("checks that bounds are ordered", func() {
		m := DefaultMap()
		v := section(m, config.SectionValidation)
		v["minSize"] = 2048
		v["maxSize"] = 1024
		v["minWidth"] = 800
		v["maxWidth"] = 640

		Expect(paths(ValidateConfig(m))).To(Equal([]string{
			"validation.minSize",
			"validation.minWidth",
		}))
	})

	It("reports non-string entries of allowedTypes by index", func() {
		m := DefaultMap()
		section(m, config.SectionValidation)["allowedTypes"] = []any{"image/*", 7}

		Expect(paths(ValidateConfig(m))).To(Equal([]string{"validation.allowedTypes.1"}))
	})

	It("accepts absent optional colors", func() {
		m := DefaultMap()
		delete(section(section(m, config.SectionStyling), "colors"), "muted")

		Expect(IsValid(m)).To(BeTrue())
	})

	It("joins every message into one error", func() {
		m := DefaultMap()
		section(m, config.SectionDefaults)["size"] = "xxl"
		section(m, config.SectionDefaults)["radius"] = "huge"

		err := ValidateConfig(m).Err()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("defaults.size"))
		Expect(err.Error()).To(ContainSubstring("defaults.radius"))
	})

	Context("with integer fields", func() {
		DescribeTable("rejects numbers that do not fit the field",
			func(sectionName, key string, value any, message string) {
				m := DefaultMap()
				section(m, sectionName)[key] = value

				result := ValidateConfig(m)
				Expect(result.Errors).To(HaveLen(1))
				Expect(result.Errors[0].Path).To(Equal(sectionName + "." + key))
				Expect(result.Errors[0].Message).To(Equal(message))
			},
			Entry("fractional size", config.SectionDefaults, "maxSize", 1.5,
				"maxSize must be a whole number"),
			Entry("huge size", config.SectionDefaults, "maxSize", 1e20,
				"maxSize must be at most 9007199254740991"),
			Entry("huge file count", config.SectionDefaults, "maxFiles", 1e19,
				"maxFiles must be at most 9007199254740991"),
			Entry("fractional minSize", config.SectionValidation, "minSize", 0.5,
				"minSize must be a whole number"),
			Entry("fractional width", config.SectionValidation, "maxWidth", 640.25,
				"maxWidth must be a whole number"),
			Entry("fractional duration", config.SectionAnimations, "duration", 150.5,
				"duration must be a whole number"),
		)

		It("accepts whole floats", func() {
			m := DefaultMap()
			section(m, config.SectionDefaults)["maxSize"] = float64(10 << 20)
			section(m, config.SectionValidation)["maxFiles"] = 3.0

			Expect(IsValid(m)).To(BeTrue())
		})

		It("checks the border width", func() {
			m := DefaultMap()
			section(section(m, config.SectionStyling), "borders")["width"] = 1.5

			Expect(paths(ValidateConfig(m))).To(Equal([]string{"styling.borders.width"}))
		})
	})

	Context("with nested shapes other than map[string]any", func() {
		It("normalizes a section given as map[string]string", func() {
			m := DefaultMap()

			labels := map[string]string{}
			for key, value := range section(m, config.SectionLabels) {
				labels[key] = value.(string)
			}

			m[config.SectionLabels] = labels

			result := ValidateConfig(m)
			Expect(result.Errors).To(BeEmpty())
			Expect(result.IsValid).To(BeTrue())
		})

		It("normalizes typed sections", func() {
			m := DefaultMap()
			m[config.SectionLabels] = DefaultLabelsConfig()
			m[config.SectionAnimations] = DefaultAnimationsConfig()

			Expect(ValidateConfig(m).Errors).To(BeEmpty())
		})

		It("validates the content of a typed section", func() {
			features := DefaultFeaturesConfig()

			m := DefaultMap()
			m[config.SectionFeatures] = &features

			Expect(IsValid(m)).To(BeTrue())

			animations := DefaultAnimationsConfig()
			animations.Duration = 9000
			m[config.SectionAnimations] = animations

			Expect(paths(ValidateConfig(m))).To(Equal([]string{"animations.duration"}))
		})

		It("normalizes typed nested objects", func() {
			m := DefaultMap()
			section(m, config.SectionStyling)["colors"] = config.ColorsConfig{Primary: "blue"}

			Expect(paths(ValidateConfig(m))).To(Equal([]string{"styling.colors.primary"}))
		})
	})

	Context("when the candidate cannot be inspected", func() {
		It("recovers a panic into a root error", func() {
			result := ValidateConfig(explodingValue{})
			expectRootFailure(result)
			Expect(result.Errors[0].Message).To(ContainSubstring("marshal exploded"))
		})

		It("reports a serialization failure as a root error", func() {
			result := ValidateConfig(unserializableValue{})
			expectRootFailure(result)
			Expect(result.Errors[0].Message).To(ContainSubstring("cannot serialize"))
		})

		It("reports a section that fails to serialize as a root error", func() {
			m := DefaultMap()
			m[config.SectionLabels] = unserializableValue{}

			expectRootFailure(ValidateConfig(m))
		})

		It("recovers a section that panics while serialized", func() {
			m := DefaultMap()
			m[config.SectionLabels] = explodingValue{}

			expectRootFailure(ValidateConfig(m))
		})
	})
})
