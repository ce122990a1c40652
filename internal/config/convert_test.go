package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

var _ = Describe("Decode", func() {
	It("decodes whole floats into integer fields", func() {
		m := DefaultMap()
		section(m, config.SectionDefaults)["maxSize"] = 2048.0
		section(m, config.SectionValidation)["maxWidth"] = 640.0

		cfg, err := Decode(m)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Defaults.MaxSize).To(Equal(int64(2048)))
		Expect(cfg.Validation.MaxWidth).To(HaveValue(Equal(640)))
	})

	DescribeTable("rejects floats an integer field cannot hold",
		func(sectionName, key string, value float64, message string) {
			m := DefaultMap()
			section(m, sectionName)[key] = value

			_, err := Decode(m)
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("fraction in int64", config.SectionDefaults, "maxSize", 1.5, "fractional part"),
		Entry("fraction in int", config.SectionAnimations, "duration", 0.25, "fractional part"),
		Entry("fraction behind a pointer", config.SectionValidation, "minHeight", 10.5, "fractional part"),
		Entry("int64 overflow", config.SectionDefaults, "maxSize", 1e20, "overflows"),
		Entry("int overflow", config.SectionDefaults, "maxFiles", 1e19, "overflows"),
	)
})
