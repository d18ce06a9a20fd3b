package application

import (
	"context"
	"errors"
	"strings"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ProgramController mediates the program table. Listings carry the
// denormalized join rows; mutations take the three foreign codigos as given
// (the pickers feeding them only offer active rows from the other
// controllers) and rely on the store's foreign-key constraint as the final
// integrity check.
type ProgramController struct {
	repo    domain.ProgramRepository
	worker  *worker
	outcome outcome
	all     *sharedStream[domain.ProgramDetail]
	active  *sharedStream[domain.ProgramDetail]
	search  *searcher[domain.ProgramDetail]
}

func NewProgramController(repo domain.ProgramRepository, opts Options) *ProgramController {
	opts = opts.withDefaults()
	c := &ProgramController{repo: repo, worker: newWorker()}
	c.all = newSharedStream(func(ctx context.Context) (domain.LiveList[domain.ProgramDetail], error) {
		return repo.ObserveAll(ctx, domain.SortNameAsc)
	}, opts.StreamGrace)
	c.active = newSharedStream(repo.ObserveActive, opts.StreamGrace)
	c.search = newSearcher(
		func(ctx context.Context) (domain.LiveList[domain.ProgramDetail], error) {
			return repo.ObserveAll(ctx, domain.SortNameAsc)
		},
		func(ctx context.Context, text string) (domain.LiveList[domain.ProgramDetail], error) {
			return repo.Search(ctx, text, domain.SortNameAsc)
		},
		opts.Debounce,
	)
	return c
}

func (c *ProgramController) WatchAll(ctx context.Context) (*StreamSub[domain.ProgramDetail], error) {
	return c.all.Attach(ctx)
}

func (c *ProgramController) WatchActive(ctx context.Context) (*StreamSub[domain.ProgramDetail], error) {
	return c.active.Attach(ctx)
}

func (c *ProgramController) SetSearchQuery(text string) { c.search.SetQuery(text) }

func (c *ProgramController) SearchResults() <-chan []domain.ProgramDetail { return c.search.Results() }

func (c *ProgramController) GetByCodigo(ctx context.Context, codigo uint) (domain.Program, bool, error) {
	return c.repo.GetByCodigo(ctx, codigo)
}

func (c *ProgramController) validateInput(in programInput) (string, bool) {
	err := validate.Struct(in)
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Name" {
		return "Name is required", false
	}
	return "Degree type, faculty and campus are required", false
}

func (c *ProgramController) Insert(name string, degreeTypeCodigo, facultyCodigo, campusCodigo uint) {
	trimmed := strings.TrimSpace(name)
	in := programInput{
		Name:             trimmed,
		DegreeTypeCodigo: degreeTypeCodigo,
		FacultyCodigo:    facultyCodigo,
		CampusCodigo:     campusCodigo,
	}
	if msg, ok := c.validateInput(in); !ok {
		c.outcome.post(msg)
		return
	}
	c.worker.enqueue(func(ctx context.Context) {
		_, err := c.repo.Insert(ctx, domain.Program{
			Name:             trimmed,
			DegreeTypeCodigo: degreeTypeCodigo,
			FacultyCodigo:    facultyCodigo,
			CampusCodigo:     campusCodigo,
		})
		if err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Program added")
	})
}

func (c *ProgramController) Update(codigo uint, name string, degreeTypeCodigo, facultyCodigo, campusCodigo uint) {
	trimmed := strings.TrimSpace(name)
	in := programInput{
		Name:             trimmed,
		DegreeTypeCodigo: degreeTypeCodigo,
		FacultyCodigo:    facultyCodigo,
		CampusCodigo:     campusCodigo,
	}
	if msg, ok := c.validateInput(in); !ok {
		c.outcome.post(msg)
		return
	}
	c.worker.enqueue(func(ctx context.Context) {
		current, ok, err := c.repo.GetByCodigo(ctx, codigo)
		if err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		if !ok {
			c.outcome.post("Program not found")
			return
		}
		current.Name = trimmed
		current.DegreeTypeCodigo = degreeTypeCodigo
		current.FacultyCodigo = facultyCodigo
		current.CampusCodigo = campusCodigo
		if err := c.repo.Update(ctx, current); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Program updated")
	})
}

func (c *ProgramController) Delete(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Delete(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Program deleted")
	})
}

func (c *ProgramController) Inactivate(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Inactivate(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Program inactivated")
	})
}

func (c *ProgramController) Reactivate(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Reactivate(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Program reactivated")
	})
}

func (c *ProgramController) Message() (string, bool) { return c.outcome.Message() }

func (c *ProgramController) AckMessage() { c.outcome.Ack() }

func (c *ProgramController) Flush(ctx context.Context) error { return c.worker.flush(ctx) }

func (c *ProgramController) Close() {
	c.worker.close()
	c.search.close()
	c.all.close()
	c.active.close()
}
