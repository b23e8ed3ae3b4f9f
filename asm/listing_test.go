package asm

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ListingHook", func() {
	var (
		listing *ListingHook
		a       *Assembler
	)

	BeforeEach(func() {
		listing = NewListingHook()
		a = NewBuilder().WithHook(listing).Build()
	})

	It("should list instructions and symbols", func() {
		err := a.Assemble(lines("@START\nSET R0 0x05 ; five\nJ @START\n"), new(bytes.Buffer))
		Expect(err).NotTo(HaveOccurred())

		Expect(listing.Len()).To(Equal(2))

		out := listing.Render()
		Expect(out).To(ContainSubstring("9000800000000005"))
		Expect(out).To(ContainSubstring("SET R0 0x05"))
		Expect(out).NotTo(ContainSubstring("five"))
		Expect(out).To(ContainSubstring("@START"))
		Expect(out).To(ContainSubstring("00000008"))
	})

	It("should start over after Reset", func() {
		Expect(a.Assemble(lines("NOP"), new(bytes.Buffer))).To(Succeed())
		listing.Reset()

		Expect(listing.Len()).To(BeZero())
		Expect(listing.Render()).NotTo(ContainSubstring("NOP"))
	})
})
