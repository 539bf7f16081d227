package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "nesgen"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "decoder",
		Brief: "Generate an instruction decoder",
		Description: "Compile an opcode table into a Go source file containing" +
			" the instruction decoder, the opcode attribute table and the" +
			" execution dispatch table. Every statement in the code column" +
			" must be a method call on the CPU core, such as adc() or" +
			" branch(FlagCarry, true). The output file is written only if" +
			" the whole table compiles.",
		Usage: "decoder <opcode-file> <output-file>",
		Data:  (*Host).cmdDecoder,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "scheduler",
		Brief: "Generate a video scheduler",
		Description: "Compile a timing rule table into a Go source file" +
			" containing the compressed scanline, chunk and action tables" +
			" of the video scheduler. Every statement in the code column" +
			" must be a method call on the video chip. The output file is" +
			" written only if the whole table compiles.",
		Usage: "scheduler <timing-file> <output-file>",
		Data:  (*Host).cmdScheduler,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "decode",
		Brief: "Decode an opcode",
		Description: "Decode an opcode and up to two operand bytes using an" +
			" opcode table, and display the disassembled instruction, its" +
			" attribute byte and its dispatch callback.",
		Usage: "decode <opcode-file> <opcode> [<lo> [<hi>]]",
		Data:  (*Host).cmdDecode,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "debug",
		Brief: "Display a compiled schedule",
		Description: "Compile a timing rule table and display every scanline" +
			" run, chunk and action of the resulting schedule.",
		Usage: "debug <timing-file>",
		Data:  (*Host).cmdDebug,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "graph",
		Brief: "Graph the linked scheduler tables",
		Description: "Compile a timing rule table and write a Graphviz" +
			" rendering of the linked scheduler tables to a file.",
		Usage: "graph <timing-file> <output-file>",
		Data:  (*Host).cmdGraph,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. Type the set" +
			" command without a variable name or value to display the current" +
			" values of all configuration variables.",
		Usage: "set [<var> <value>]",
		Data:  (*Host).cmdSet,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "settings",
		Brief:       "Display configuration variables",
		Description: "Display the current values of all configuration variables.",
		Usage:       "settings",
		Data:        (*Host).cmdSettings,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})

	cmds = root
}
