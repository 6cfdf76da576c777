// Package logger provides leveled console logging for envgate commands.
//
// Output is prefixed and coloured with fatih/color. Verbosity is controlled
// by two flags:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows everything, including debug and error details
//
// Without flags only WarnfAlways output appears; command results are
// printed by the command itself, not through the logger.
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Encrypting %s", path)
//
// A zero Logger writes nothing except WarnfAlways, which goes to stderr.
package logger
