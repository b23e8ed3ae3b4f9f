package asmerr_test

import (
	"errors"
	"fmt"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/muasm/asmerr"
)

var _ = Describe("Error", func() {
	It("should match its kind with errors.Is", func() {
		err := fmt.Errorf("outer: %w",
			asmerr.New(asmerr.UnresolvedSymbol, "@loop is not defined"))

		Expect(errors.Is(err, asmerr.UnresolvedSymbol)).To(BeTrue())
		Expect(errors.Is(err, asmerr.UnknownOperand)).To(BeFalse())

		kind, ok := asmerr.KindOf(err)
		Expect(ok).To(BeTrue())
		Expect(kind).To(Equal(asmerr.UnresolvedSymbol))
	})

	It("should format the position, kind, message and cause", func() {
		err := asmerr.New(asmerr.LiteralOutOfRange, "%s does not fit", "0x1FFFFFFFF").
			WithToken("0x1FFFFFFFF").
			Wrap(io.ErrShortBuffer)

		Expect(asmerr.AtLine(err, 7).Error()).To(Equal(
			"line 7: LiteralOutOfRange: 0x1FFFFFFFF does not fit: short buffer"))
		Expect(errors.Is(err, io.ErrShortBuffer)).To(BeTrue())
		Expect(err.Token).To(Equal("0x1FFFFFFFF"))
	})

	It("should keep the first line attached", func() {
		err := asmerr.AtLine(asmerr.New(asmerr.UnknownMnemonic, "FOO"), 3)
		err = asmerr.AtLine(err, 9)

		var e *asmerr.Error
		Expect(errors.As(err, &e)).To(BeTrue())
		Expect(e.Line).To(Equal(3))
	})

	It("should wrap foreign errors as MalformedLine", func() {
		err := asmerr.AtLine(io.ErrUnexpectedEOF, 2)

		Expect(errors.Is(err, asmerr.MalformedLine)).To(BeTrue())
		Expect(errors.Is(err, io.ErrUnexpectedEOF)).To(BeTrue())
	})

	It("should attach stream offsets", func() {
		err := asmerr.AtOffset(asmerr.New(asmerr.TruncatedStream, "3 bytes left"), 16)

		Expect(err.Error()).To(Equal("offset 0x10: TruncatedStream: 3 bytes left"))

		foreign := asmerr.AtOffset(io.ErrUnexpectedEOF, 8)
		Expect(errors.Is(foreign, asmerr.UnknownEncoding)).To(BeTrue())
	})

	It("should pass nil through", func() {
		Expect(asmerr.AtLine(nil, 1)).To(BeNil())
		Expect(asmerr.AtOffset(nil, 1)).To(BeNil())
	})

	It("should name unknown kinds", func() {
		Expect(asmerr.Kind(99).String()).To(Equal("Kind(99)"))
		Expect(asmerr.InvalidTable.Error()).To(Equal("InvalidTable"))
	})

	It("should report no kind for plain errors", func() {
		_, ok := asmerr.KindOf(io.EOF)
		Expect(ok).To(BeFalse())
	})
})
