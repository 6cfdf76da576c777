package cmd

import (
	"github.com/spf13/pflag"
)

// transformFlags are the flags shared by encrypt and decrypt.
type transformFlags struct {
	in     string
	out    string
	dryRun bool
}

var (
	encryptFlags  transformFlags
	decryptFlags  transformFlags
	encryptFormat string
)

func (f *transformFlags) register(fs *pflag.FlagSet, inDefault, outDefault string) {
	fs.StringVarP(&f.in, "in", "i", "", "file to read (default: "+inDefault+" at the repository root)")
	fs.StringVarP(&f.out, "out", "o", "", "file to write (default: "+outDefault+" at the repository root)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "check access and run the cipher without writing anything")
}

func resetTransformCommandState() {
	encryptFlags = transformFlags{}
	encryptFormat = ""
	decryptFlags = transformFlags{}
}
