// ABOUTME: Interactive edit session for one video's review
// ABOUTME: Line commands toggle decisions, edit rows, show, save, or quit
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/review"
)

const editHelp = `Commands:
  on <id>                     select a decision (and its parents)
  off <id>                    clear a decision (and its children)
  row add                     append an empty row
  row rm <row>                remove a row (number or id)
  row set <row> <field> [v]   set topic, subTopic, or correction; no value clears
  show                        print the current review
  save                        save the review
  quit                        leave without saving
  help                        print this help
`

// errQuit ends the edit loop
var errQuit = errors.New("quit")

// NewEditCmd creates the interactive edit command
func NewEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <videoID>",
		Short: "Edit a video's review interactively",
		Long: `Open an interactive edit session for a video. The saved review
is resumed if one exists.

Invalid commands are reported and the session continues. Changes are
only stored by "save"; "quit" or end of input discards the rest.

` + editHelp,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}
}

// editor runs line commands against one session
type editor struct {
	ctx     context.Context
	env     *env
	session *review.Session
	out     io.Writer
	dirty   bool
}

func runEdit(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	s, err := review.Begin(ctx, e.store, args[0], decision.Default(), association.DefaultTopics(), e.logger)
	if err != nil {
		return err
	}

	ed := &editor{ctx: ctx, env: e, session: s, out: cmd.OutOrStdout()}
	if !quiet {
		fmt.Fprintf(ed.out, "Editing %s. Type \"help\" for commands.\n", s.VideoID)
	}

	prompt := "> "
	if quiet {
		prompt = ""
	}
	lines := newLineReader(cmd.InOrStdin(), ed.out, prompt)
	for {
		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		err = ed.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(ed.out, "error: %v\n", err)
		}
	}

	if ed.dirty {
		e.logger.Warn("input ended with unsaved changes", "video", s.VideoID)
	}
	return nil
}

func (ed *editor) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "on", "off":
		if len(fields) != 2 {
			return fmt.Errorf("usage: %s <id>", fields[0])
		}
		if err := ed.session.Toggle(fields[1], fields[0] == "on"); err != nil {
			return err
		}
		ed.dirty = true
		fmt.Fprintf(ed.out, "selected: %s\n", strings.Join(ed.session.Selected(), ", "))
		return nil

	case "row":
		return ed.row(fields[1:])

	case "show":
		fmt.Fprintf(ed.out, "Video:  %s\n\n", ed.session.VideoID)
		printTree(ed.out, ed.session.Taxonomy(), ed.session.Decisions())
		fmt.Fprintf(ed.out, "\nRows\n")
		printRows(ed.out, ed.session.Topics(), ed.session.Rows())
		fmt.Fprintf(ed.out, "\nConsiderations\n%s", review.Considerations(ed.session))
		return nil

	case "save":
		rec, err := review.Save(ed.ctx, ed.env.store, ed.session)
		if err != nil {
			return err
		}
		ed.dirty = false
		fmt.Fprintf(ed.out, "saved review %s (%d selected)\n", rec.ReviewID, rec.SelectedCount())
		return nil

	case "quit", "exit":
		if ed.dirty {
			fmt.Fprintln(ed.out, "discarding unsaved changes")
		}
		return errQuit

	case "help", "?":
		fmt.Fprint(ed.out, editHelp)
		return nil
	}

	return fmt.Errorf("unknown command %q (try help)", fields[0])
}

func (ed *editor) row(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: row add|rm|set")
	}

	switch args[0] {
	case "add":
		r := ed.session.AddRow()
		ed.dirty = true
		fmt.Fprintf(ed.out, "added row %d (%s)\n", len(ed.session.Rows()), r.ID)
		return nil

	case "rm":
		if len(args) != 2 {
			return errors.New("usage: row rm <row>")
		}
		if err := ed.session.RemoveRow(ed.resolveRow(args[1])); err != nil {
			return err
		}
		ed.dirty = true
		fmt.Fprintf(ed.out, "%d row(s) left\n", len(ed.session.Rows()))
		return nil

	case "set":
		if len(args) < 3 {
			return errors.New("usage: row set <row> <field> [value]")
		}
		field, err := association.ParseField(args[2])
		if err != nil {
			return err
		}
		value := strings.Join(args[3:], " ")
		if err := ed.session.UpdateRow(ed.resolveRow(args[1]), field, value); err != nil {
			return err
		}
		ed.dirty = true
		printRows(ed.out, ed.session.Topics(), ed.session.Rows())
		return nil
	}

	return fmt.Errorf("unknown row command %q", args[0])
}

// resolveRow maps a 1-based row number to its id; anything else is taken as an id
func (ed *editor) resolveRow(ref string) string {
	rows := ed.session.Rows()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(rows) {
		return rows[n-1].ID
	}
	return ref
}
