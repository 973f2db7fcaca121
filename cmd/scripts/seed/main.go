package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/libraryhub/libraryhub/pkg/authors"
	"github.com/libraryhub/libraryhub/pkg/bibliographies"
	"github.com/libraryhub/libraryhub/pkg/books"
	"github.com/libraryhub/libraryhub/pkg/config"
	"github.com/libraryhub/libraryhub/pkg/database"
	"github.com/libraryhub/libraryhub/pkg/issuances"
	"github.com/libraryhub/libraryhub/pkg/migrations"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/libraryhub/libraryhub/pkg/readers"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type sampleBook struct {
	name    string
	year    int
	pages   int
	authors []int
}

var sampleAuthors = []*models.Author{
	{Name: "Frank", Surname: "Herbert"},
	{Name: "Ursula", Surname: "Le Guin"},
	{Name: "Isaac", Surname: "Asimov"},
	{Name: "Arthur", Surname: "Clarke"},
}

// Author indexes refer to sampleAuthors.
var sampleBooks = []sampleBook{
	{"Dune", 1965, 412, []int{0}},
	{"The Left Hand of Darkness", 1969, 286, []int{1}},
	{"Foundation", 1951, 255, []int{2}},
	{"Childhood's End", 1953, 214, []int{3}},
	{"The Dispossessed", 1974, 387, []int{1}},
}

var sampleNames = [][2]string{
	{"Paul", "Atreides"},
	{"Genly", "Ai"},
	{"Hari", "Seldon"},
	{"Jan", "Rodricks"},
	{"Shevek", "Urrasti"},
	{"Duncan", "Idaho"},
}

func checkCount(count int) error {
	if count < 0 {
		return errors.Errorf("--count must not be negative, got %d", count)
	}
	return nil
}

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Count  int  `short:"c" long:"count" default:"5" description:"Number of readers to create, each with one issuance"`
		DryRun bool `short:"n" long:"dry-run" description:"Validate the sample rows without writing them"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.Err(err).Fatal("flags parse error")
	}
	if err := checkCount(opts.Count); err != nil {
		log.Err(err).Fatal("invalid options")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	v := validation.New(validation.Options{PhoneDefaultRegion: cfg.PhoneDefaultRegion})

	if opts.DryRun {
		if err := validateSamples(v, opts.Count); err != nil {
			log.Err(err).Fatal("sample data is invalid")
		}
		log.Info("sample data is valid", logger.Data{"authors": len(sampleAuthors), "books": len(sampleBooks), "readers": opts.Count})
		return
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	if err := seed(ctx, db, v, opts.Count); err != nil {
		log.Err(err).Fatal("seed error")
	}
	log.Info("seeded sample data", logger.Data{"authors": len(sampleAuthors), "books": len(sampleBooks), "readers": opts.Count})
}

func sampleReader(i int) *models.Reader {
	name := sampleNames[i%len(sampleNames)]
	return &models.Reader{
		FirstName:   name[0],
		LastName:    name[1],
		PhoneNumber: fmt.Sprintf("+1 650 253 %04d", i),
	}
}

func validateSamples(v *validation.Validator, count int) error {
	for _, a := range sampleAuthors {
		if err := v.Struct(a); err != nil {
			return errors.Wrapf(err, "author %s", a)
		}
	}
	for _, b := range sampleBooks {
		book := &models.Book{Name: b.name, PublicationYear: b.year, PageNumber: b.pages}
		if err := v.Struct(book); err != nil {
			return errors.Wrapf(err, "book %s", book)
		}
	}
	for i := 0; i < count; i++ {
		reader := sampleReader(i)
		if err := v.Struct(reader); err != nil {
			return errors.Wrapf(err, "reader %s", reader)
		}
	}
	return nil
}

func seed(ctx context.Context, db *bun.DB, v *validation.Validator, count int) error {
	log := logger.FromContext(ctx)

	authorService := authors.NewService(db, v)
	bookService := books.NewService(db, v)
	readerService := readers.NewService(db, v)
	issuanceService := issuances.NewService(db, v)
	bibliographyService := bibliographies.NewService(db, v)

	authorIDs := make([]int64, 0, len(sampleAuthors))
	for _, a := range sampleAuthors {
		author := &models.Author{Name: a.Name, Surname: a.Surname}
		if err := authorService.CreateAuthor(ctx, author); err != nil {
			return errors.Wrapf(err, "author %s", author)
		}
		authorIDs = append(authorIDs, author.ID)
	}

	bookIDs := make([]int64, 0, len(sampleBooks))
	for _, b := range sampleBooks {
		ids := make([]int64, 0, len(b.authors))
		for _, idx := range b.authors {
			ids = append(ids, authorIDs[idx])
		}

		book := &models.Book{Name: b.name, PublicationYear: b.year, PageNumber: b.pages}
		if err := bookService.CreateBook(ctx, book, ids); err != nil {
			return errors.Wrapf(err, "book %s", book)
		}
		bookIDs = append(bookIDs, book.ID)

		for _, authorID := range ids {
			bib := &models.Bibliography{AuthorID: authorID, BookID: book.ID}
			if err := bibliographyService.CreateBibliography(ctx, bib); err != nil {
				return errors.Wrapf(err, "bibliography for %s", book)
			}
		}
	}

	today := models.TruncateDate(time.Now())
	for i := 0; i < count; i++ {
		reader := sampleReader(i)
		if err := readerService.CreateReader(ctx, reader); err != nil {
			return errors.Wrapf(err, "reader %s", reader)
		}

		issuance := &models.Issuance{
			BookID:    bookIDs[i%len(bookIDs)],
			ReaderID:  reader.ID,
			DateIssue: today.AddDate(0, 0, -i),
		}
		// Every other issuance is open-ended.
		if i%2 == 0 {
			expiration := issuance.DateIssue.AddDate(0, 0, 14)
			issuance.DateExpiration = &expiration
		}
		if err := issuanceService.CreateIssuance(ctx, issuance); err != nil {
			return errors.Wrapf(err, "issuance for %s", reader)
		}
		log.Debug("created reader", logger.Data{"reader_id": reader.ID, "issuance_id": issuance.ID})
	}

	return nil
}
