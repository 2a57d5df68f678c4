package explorer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/store"
)

// Source is the query surface the client reads from: the local store or a
// remote server.
type Source interface {
	Courses(ctx context.Context) ([]catalog.Course, error)
	Connections(ctx context.Context) ([]catalog.Connection, error)
	KSB(ctx context.Context) ([]catalog.KSB, error)
	Outgoing(ctx context.Context, courseID int) ([]catalog.Route, error)
	Incoming(ctx context.Context, courseID int) ([]catalog.Route, error)
	CareerLink(ctx context.Context, jobTitle string) (careers.Link, error)
}

// Load fetches courses, connections and enrichment concurrently and
// installs them into s. Enrichment failures degrade to no enrichment.
func Load(ctx context.Context, src Source, s *State) error {
	var (
		courses []catalog.Course
		conns   []catalog.Connection
		ksb     []catalog.KSB
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = src.Courses(gctx)
		if err != nil {
			return fmt.Errorf("load courses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		conns, err = src.Connections(gctx)
		if err != nil {
			return fmt.Errorf("load connections: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ksb, err = src.KSB(gctx)
		if err != nil {
			s.logger.Warn("loading without enrichment", zap.Error(err))
			ksb = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.SetData(courses, conns, ksb)
	s.logger.Info("course graph loaded",
		zap.Int("courses", len(courses)),
		zap.Int("connections", len(conns)),
		zap.Int("ksbMappings", len(ksb)))
	return nil
}

// FetchDetail queries both directions for the ticket's course. It never
// returns an error: failures are reported inside the Detail.
func FetchDetail(ctx context.Context, src Source, t Ticket) Detail {
	d := Detail{Ticket: t}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Outgoing, err = src.Outgoing(gctx, t.CourseID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Incoming, err = src.Incoming(gctx, t.CourseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Detail{Ticket: t, Err: "Failed to load progression routes: " + err.Error()}
	}
	return d
}

// LocalSource reads from the embedded store.
type LocalSource struct {
	Store   store.Reader
	Careers *careers.Mapping
}

var _ Source = (*LocalSource)(nil)

func (l *LocalSource) Courses(ctx context.Context) ([]catalog.Course, error) {
	return l.Store.Courses(ctx)
}

func (l *LocalSource) Connections(ctx context.Context) ([]catalog.Connection, error) {
	return l.Store.Connections(ctx)
}

func (l *LocalSource) KSB(ctx context.Context) ([]catalog.KSB, error) {
	return l.Store.KSB(ctx)
}

func (l *LocalSource) Outgoing(ctx context.Context, courseID int) ([]catalog.Route, error) {
	return l.Store.Outgoing(ctx, courseID)
}

func (l *LocalSource) Incoming(ctx context.Context, courseID int) ([]catalog.Route, error) {
	return l.Store.Incoming(ctx, courseID)
}

func (l *LocalSource) CareerLink(_ context.Context, jobTitle string) (careers.Link, error) {
	if l.Careers == nil {
		return careers.Link{JobTitle: jobTitle}, nil
	}
	return l.Careers.Resolve(jobTitle), nil
}
