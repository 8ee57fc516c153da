package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewGenerateMarkdownCommand(parentCmd *cobra.Command) *cobra.Command {
	docCmd := &cobra.Command{
		Use:   "doc [FILE]",
		Short: "Generate markdown of the command line interface",
		Args:  ArgsWithUsage(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cmd.Root().Name() + ".md"
			if len(args) > 0 {
				path = args[0]
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			GenerateMarkdown(cmd.Root(), f)
			return nil
		},
	}
	if parentCmd != nil {
		parentCmd.AddCommand(docCmd)
	}
	return docCmd
}

func documented(cmd *cobra.Command) bool {
	return !cmd.Hidden && cmd.Name() != "help" && cmd.Name() != "completion"
}

type markdown struct {
	*bufio.Writer
}

func (md markdown) line(parts ...interface{}) {
	fmt.Fprintln(md, parts...)
}

func (md markdown) table(title string, columns ...string) {
	md.line("###", title)
	md.line("| " + strings.Join(columns, " | ") + " |")
	md.line(strings.Repeat("|---", len(columns)) + "|")
}

func (md markdown) commandRow(cmd *cobra.Command) {
	if !documented(cmd) {
		return
	}
	path := cmd.CommandPath()
	md.line(fmt.Sprintf("| [%s](#%s) | %s |", path, strings.ReplaceAll(path, " ", "-"), cmd.Short))
}

func (md markdown) flagRow(f *pflag.Flag) {
	name := "--" + f.Name
	if f.Shorthand != "" && f.ShorthandDeprecated == "" {
		name += ", -" + f.Shorthand
	}
	md.line("|", name, "|", f.DefValue, "|", f.Usage, "|")
}

func (md markdown) command(cmd *cobra.Command) {
	if !documented(cmd) {
		return
	}
	if !cmd.HasParent() {
		name := cmd.Name()
		md.line("#", strings.ToUpper(name[:1])+name[1:])
		md.line()
	}
	md.line("##", cmd.CommandPath())
	md.line()

	md.line("### Description")
	if cmd.Long != "" {
		md.line(cmd.Long)
	} else {
		md.line(cmd.Short)
	}
	md.line()
	md.line("### Usage")
	md.line("`" + cmd.UseLine() + "`")
	md.line()

	if cmd.HasLocalFlags() || cmd.HasPersistentFlags() {
		md.table("Options", "Name,shorthand", "Default", "Description")
		cmd.NonInheritedFlags().VisitAll(md.flagRow)
		md.line()
	}
	if cmd.HasInheritedFlags() {
		md.table("Inherited Options", "Name,shorthand", "Default", "Description")
		cmd.InheritedFlags().VisitAll(md.flagRow)
		md.line()
	}
	if cmd.HasAvailableSubCommands() {
		md.table("Child commands", "Command", "Description")
		for _, child := range cmd.Commands() {
			md.commandRow(child)
		}
		md.line()
	}
	if cmd.HasParent() {
		md.table("Parent command", "Command", "Description")
		md.commandRow(cmd.Parent())
		md.line()
	}
	for _, child := range cmd.Commands() {
		md.command(child)
	}
}

// GenerateMarkdown writes the usage of cmd and of all its sub commands.
func GenerateMarkdown(cmd *cobra.Command, w io.Writer) {
	md := markdown{bufio.NewWriter(w)}
	md.command(cmd)
	_ = md.Flush()
}
