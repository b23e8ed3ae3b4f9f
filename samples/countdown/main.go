package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/muasm/api"
	"github.com/sarchlab/muasm/asm"
)

//go:embed countdown.muasm
var countdownSource string

func countdown(driver api.Driver, listing *asm.ListingHook) {
	var binary bytes.Buffer
	if err := driver.Assemble(strings.NewReader(countdownSource), &binary); err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	fmt.Println(listing.Render())
	fmt.Printf("%d bytes\n", binary.Len())

	var text strings.Builder
	if err := driver.Disassemble(&binary, &text); err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	fmt.Print(text.String())
}

func main() {
	listing := asm.NewListingHook()

	driver := api.MakeDriverBuilder().
		WithHook(listing).
		Build()

	countdown(driver, listing)

	atexit.Exit(0)
}
