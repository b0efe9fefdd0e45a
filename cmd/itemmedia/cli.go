package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/vortechron/go-itemmedia/auth"
	"github.com/vortechron/go-itemmedia/gateway"
	"github.com/vortechron/go-itemmedia/medialibrary"
	"github.com/vortechron/go-itemmedia/models"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	gw       gateway.Gateway
	identity *auth.Identity
	options  []medialibrary.Option
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  list [-type TYPE] [-page N] [-per-page N]                   - list items")
	fmt.Fprintln(cli.out, "  show -slug SLUG                                              - show an item's media in order")
	fmt.Fprintln(cli.out, "  create -type TYPE -title TITLE [-info JSON]                  - create an item")
	fmt.Fprintln(cli.out, "  add -slug SLUG (-url URL [-kind KIND] | -youtube REF | -file PATH) - attach media")
	fmt.Fprintln(cli.out, "  move -slug SLUG -from POS -to POS                            - reorder media (positions start at 1)")
	fmt.Fprintln(cli.out, "  remove -slug SLUG -position POS                              - detach media")
}

func (cli *commandLine) context() context.Context {
	ctx := context.Background()
	if cli.identity != nil {
		ctx = auth.WithIdentity(ctx, cli.identity)
	}
	return ctx
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	listType := listCmd.String("type", "", "Only items of this item_type.")
	listPage := listCmd.Int("page", 1, "Page number.")
	listPerPage := listCmd.Int("per-page", gateway.DefaultPerPage, "Items per page.")

	showCmd := flag.NewFlagSet("show", flag.ContinueOnError)
	showSlug := showCmd.String("slug", "", "The item's slug.")

	createCmd := flag.NewFlagSet("create", flag.ContinueOnError)
	createType := createCmd.String("type", "", "The item_type, e.g. campaign or sponsor.")
	createTitle := createCmd.String("title", "", "The item's title.")
	createInfo := createCmd.String("info", "", "The item_info bag as JSON.")

	addCmd := flag.NewFlagSet("add", flag.ContinueOnError)
	addSlug := addCmd.String("slug", "", "The item's slug.")
	addURL := addCmd.String("url", "", "An already hosted media URL.")
	addKind := addCmd.String("kind", string(models.MediaKindImage), "The kind of -url: image or video.")
	addYouTube := addCmd.String("youtube", "", "A YouTube video id or URL.")
	addFile := addCmd.String("file", "", "A local file to upload.")

	moveCmd := flag.NewFlagSet("move", flag.ContinueOnError)
	moveSlug := moveCmd.String("slug", "", "The item's slug.")
	moveFrom := moveCmd.Int("from", 0, "Current position of the media.")
	moveTo := moveCmd.Int("to", 0, "New position of the media.")

	removeCmd := flag.NewFlagSet("remove", flag.ContinueOnError)
	removeSlug := removeCmd.String("slug", "", "The item's slug.")
	removePosition := removeCmd.Int("position", 0, "Position of the media to remove.")

	for _, fs := range []*flag.FlagSet{listCmd, showCmd, createCmd, addCmd, moveCmd, removeCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.list(gateway.ListOptions{ItemType: models.ItemType(*listType), Page: *listPage, PerPage: *listPerPage})
	case "show":
		if err := showCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *showSlug == "" {
			showCmd.Usage()
			return errHelp
		}
		return cli.show(*showSlug)
	case "create":
		if err := createCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *createType == "" || *createTitle == "" {
			createCmd.Usage()
			return errHelp
		}
		return cli.create(models.ItemType(*createType), *createTitle, *createInfo)
	case "add":
		if err := addCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		set := 0
		for _, v := range []string{*addURL, *addYouTube, *addFile} {
			if v != "" {
				set++
			}
		}
		if *addSlug == "" || set != 1 {
			addCmd.Usage()
			return errHelp
		}
		return cli.add(*addSlug, *addURL, *addKind, *addYouTube, *addFile)
	case "move":
		if err := moveCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *moveSlug == "" || *moveFrom < 1 || *moveTo < 1 {
			moveCmd.Usage()
			return errHelp
		}
		return cli.move(*moveSlug, *moveFrom, *moveTo)
	case "remove":
		if err := removeCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *removeSlug == "" || *removePosition < 1 {
			removeCmd.Usage()
			return errHelp
		}
		return cli.remove(*removeSlug, *removePosition)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) list(opts gateway.ListOptions) error {
	page, err := cli.gw.ListItems(cli.context(), opts)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTYPE\tIMAGES\tTITLE")
	for _, item := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", item.ID, item.Slug, item.Type, len(item.Images), item.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "page %d, %d of %d items\n", page.Page, len(page.Items), page.TotalItems)
	return nil
}

func (cli *commandLine) load(slug string) (*medialibrary.Session, error) {
	s := medialibrary.NewSession(cli.gw, cli.options...)
	if _, err := s.LoadBySlug(cli.context(), slug); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, fmt.Errorf("no item with slug %q", slug)
		}
		return nil, err
	}
	return s, nil
}

func (cli *commandLine) show(slug string) error {
	s, err := cli.load(slug)
	if err != nil {
		return err
	}
	item := s.Item()
	fmt.Fprintf(cli.out, "%s %d %q (%s)\n", item.Type, item.ID, item.Title, item.Slug)
	cli.printEntries(s)

	images, err := json.Marshal(s.StructuredImages())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "image: %s\n", images)
	return nil
}

func (cli *commandLine) printEntries(s *medialibrary.Session) {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, e := range s.Entries() {
		id := "pending"
		if e.IsPersisted() {
			id = fmt.Sprintf("%d", *e.ServerID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Sequence, id, e.Kind, e.URL)
	}
	w.Flush()
}

func (cli *commandLine) create(itemType models.ItemType, title, rawInfo string) error {
	s := medialibrary.NewSession(cli.gw, cli.options...)
	item := s.NewItem(itemType, title)
	if rawInfo != "" {
		info, err := models.DecodeInfo(itemType, json.RawMessage(rawInfo))
		if err != nil {
			return fmt.Errorf("invalid -info: %w", err)
		}
		item.Info = info
	}
	if _, err := s.Save(cli.context()); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s %d (%s)\n", item.Type, item.ID, item.Slug)
	return nil
}

func (cli *commandLine) add(slug, rawURL, kind, youtube, file string) error {
	s, err := cli.load(slug)
	if err != nil {
		return err
	}

	ctx := cli.context()
	switch {
	case rawURL != "":
		k, err := models.ParseMediaKind(kind)
		if err != nil {
			return err
		}
		_, err = s.AddURL(rawURL, k)
		if err != nil {
			return err
		}
	case youtube != "":
		if _, err := s.AddYouTube(youtube); err != nil {
			return err
		}
	default:
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := s.AddUpload(ctx, filepath.Base(file), f); err != nil {
			return err
		}
	}

	if _, err := s.Save(ctx); err != nil {
		return err
	}
	cli.printEntries(s)
	return nil
}

func (cli *commandLine) move(slug string, from, to int) error {
	s, err := cli.load(slug)
	if err != nil {
		return err
	}
	report, err := s.Move(cli.context(), from-1, to-1)
	if report != nil {
		for _, res := range report.Results {
			if res.Status != medialibrary.StatusSucceeded {
				fmt.Fprintf(cli.out, "image %d: %s\n", res.ServerID, res.Status)
			}
		}
	}
	if err != nil {
		return err
	}
	cli.printEntries(s)
	return nil
}

func (cli *commandLine) remove(slug string, position int) error {
	s, err := cli.load(slug)
	if err != nil {
		return err
	}
	entries := s.Entries()
	if position > len(entries) {
		return fmt.Errorf("position %d is out of range, item has %d media", position, len(entries))
	}
	ctx := cli.context()
	if err := s.Remove(ctx, entries[position-1].Key); err != nil {
		return err
	}
	if _, err := s.Save(ctx); err != nil {
		return err
	}
	cli.printEntries(s)
	return nil
}
