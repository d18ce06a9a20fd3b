package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	sqliteadapter "github.com/atvirokodosprendimai/gradcatalog/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/gradcatalog/internal/application"
	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
	"github.com/atvirokodosprendimai/gradcatalog/internal/livequery"
)

func main() {
	_ = godotenv.Load()

	dbDefault := os.Getenv("GRADCATALOG_DB")
	if dbDefault == "" {
		dbDefault = "gradcatalog.db"
	}

	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "gradcatalog",
		Usage: "Graduate program catalog manager",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: dbDefault, Usage: "SQLite database path"},
		},
		Commands: []*cli.Command{
			seedCommand(),
			campusCommand(),
			facultyCommand(),
			degreeTypeCommand(),
			programCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load sample data into an empty catalog",
		Action: func(ctx context.Context, c *cli.Command) error {
			cat, err := openCatalog(ctx, c.String("db"))
			if err != nil {
				return err
			}
			defer cat.close()
			if err := application.Seed(ctx, cat.campuses, cat.faculties, cat.degreeTypes, cat.programs); err != nil {
				return err
			}
			fmt.Println("seed complete")
			return nil
		},
	}
}

func campusCommand() *cli.Command {
	return &cli.Command{
		Name:  "campus",
		Usage: "Campus commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all campuses",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Value: "name_asc", Usage: "name_asc|name_desc|codigo_asc|codigo_desc"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					sort, err := parseSort(c.String("sort"))
					if err != nil {
						return err
					}
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.campuses.ObserveAll(ctx, sort)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printCampuses(out)
					return nil
				},
			},
			{
				Name:  "active",
				Usage: "List active campuses",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.campuses.ObserveActive(ctx)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printCampuses(out)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "Show one campus by codigo",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "codigo", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					row, ok, err := cat.campuses.GetByCodigo(ctx, c.Uint("codigo"))
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("campus %d not found", c.Uint("codigo"))
					}
					if c.Bool("json") {
						return printJSON(row)
					}
					printKV([][2]string{
						{"codigo", uintToString(row.Codigo)},
						{"name", row.Name},
						{"state", string(row.State)},
						{"created_at", formatTime(row.CreatedAt)},
						{"updated_at", formatTime(row.UpdatedAt)},
					})
					return nil
				},
			},
			{
				Name:  "search",
				Usage: "Search campuses by name fragment",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Required: true},
					&cli.StringFlag{Name: "sort", Value: "name_asc", Usage: "name_asc|name_desc|codigo_asc|codigo_desc"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					sort, err := parseSort(c.String("sort"))
					if err != nil {
						return err
					}
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.campuses.Search(ctx, c.String("q"), sort)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printCampuses(out)
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Add a campus",
				Flags: []cli.Flag{&cli.StringFlag{Name: "name", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.campusCtrl.Insert(c.String("name"))
					return reportOutcome(ctx, cat.campusCtrl)
				},
			},
			{
				Name:  "update",
				Usage: "Rename a campus",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "codigo", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.campusCtrl.Update(c.Uint("codigo"), c.String("name"))
					return reportOutcome(ctx, cat.campusCtrl)
				},
			},
			{
				Name:  "rm",
				Usage: "Soft-delete a campus",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.campusCtrl.Delete(c.Uint("codigo"))
					return reportOutcome(ctx, cat.campusCtrl)
				},
			},
			{
				Name:  "inactivate",
				Usage: "Mark a campus inactive",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.campusCtrl.Inactivate(c.Uint("codigo"))
					return reportOutcome(ctx, cat.campusCtrl)
				},
			},
			{
				Name:  "reactivate",
				Usage: "Mark a campus active again",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.campusCtrl.Reactivate(c.Uint("codigo"))
					return reportOutcome(ctx, cat.campusCtrl)
				},
			},
			{
				Name:  "watch",
				Usage: "Stream the campus list until interrupted",
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					sub, err := cat.campusCtrl.WatchAll(ctx)
					if err != nil {
						return err
					}
					defer sub.Close()
					return watchLoop(ctx, sub.Updates(), printCampuses)
				},
			},
		},
	}
}

func facultyCommand() *cli.Command {
	return &cli.Command{
		Name:  "faculty",
		Usage: "Faculty commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all faculties",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Value: "name_asc", Usage: "name_asc|name_desc|codigo_asc|codigo_desc"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					sort, err := parseSort(c.String("sort"))
					if err != nil {
						return err
					}
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.faculties.ObserveAll(ctx, sort)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printFaculties(out)
					return nil
				},
			},
			{
				Name:  "active",
				Usage: "List active faculties",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.faculties.ObserveActive(ctx)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printFaculties(out)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "Show one faculty by codigo",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "codigo", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					row, ok, err := cat.faculties.GetByCodigo(ctx, c.Uint("codigo"))
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("faculty %d not found", c.Uint("codigo"))
					}
					if c.Bool("json") {
						return printJSON(row)
					}
					printKV([][2]string{
						{"codigo", uintToString(row.Codigo)},
						{"name", row.Name},
						{"state", string(row.State)},
						{"created_at", formatTime(row.CreatedAt)},
						{"updated_at", formatTime(row.UpdatedAt)},
					})
					return nil
				},
			},
			{
				Name:  "search",
				Usage: "Search faculties by name fragment",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Required: true},
					&cli.StringFlag{Name: "sort", Value: "name_asc", Usage: "name_asc|name_desc|codigo_asc|codigo_desc"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					sort, err := parseSort(c.String("sort"))
					if err != nil {
						return err
					}
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.faculties.Search(ctx, c.String("q"), sort)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printFaculties(out)
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Add a faculty",
				Flags: []cli.Flag{&cli.StringFlag{Name: "name", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.facultyCtrl.Insert(c.String("name"))
					return reportOutcome(ctx, cat.facultyCtrl)
				},
			},
			{
				Name:  "update",
				Usage: "Rename a faculty",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "codigo", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.facultyCtrl.Update(c.Uint("codigo"), c.String("name"))
					return reportOutcome(ctx, cat.facultyCtrl)
				},
			},
			{
				Name:  "rm",
				Usage: "Soft-delete a faculty",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.facultyCtrl.Delete(c.Uint("codigo"))
					return reportOutcome(ctx, cat.facultyCtrl)
				},
			},
			{
				Name:  "inactivate",
				Usage: "Mark a faculty inactive",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.facultyCtrl.Inactivate(c.Uint("codigo"))
					return reportOutcome(ctx, cat.facultyCtrl)
				},
			},
			{
				Name:  "reactivate",
				Usage: "Mark a faculty active again",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.facultyCtrl.Reactivate(c.Uint("codigo"))
					return reportOutcome(ctx, cat.facultyCtrl)
				},
			},
			{
				Name:  "watch",
				Usage: "Stream the faculty list until interrupted",
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					sub, err := cat.facultyCtrl.WatchAll(ctx)
					if err != nil {
						return err
					}
					defer sub.Close()
					return watchLoop(ctx, sub.Updates(), printFaculties)
				},
			},
		},
	}
}

func degreeTypeCommand() *cli.Command {
	return &cli.Command{
		Name:  "degree-type",
		Usage: "Degree type commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all degree types",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Value: "name_asc", Usage: "name_asc|name_desc|codigo_asc|codigo_desc"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					sort, err := parseSort(c.String("sort"))
					if err != nil {
						return err
					}
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.degreeTypes.ObserveAll(ctx, sort)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printDegreeTypes(out)
					return nil
				},
			},
			{
				Name:  "active",
				Usage: "List active degree types",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.degreeTypes.ObserveActive(ctx)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printDegreeTypes(out)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "Show one degree type by codigo",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "codigo", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					row, ok, err := cat.degreeTypes.GetByCodigo(ctx, c.Uint("codigo"))
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("degree type %d not found", c.Uint("codigo"))
					}
					if c.Bool("json") {
						return printJSON(row)
					}
					printKV([][2]string{
						{"codigo", uintToString(row.Codigo)},
						{"name", row.Name},
						{"state", string(row.State)},
						{"created_at", formatTime(row.CreatedAt)},
						{"updated_at", formatTime(row.UpdatedAt)},
					})
					return nil
				},
			},
			{
				Name:  "search",
				Usage: "Search degree types by name fragment",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Required: true},
					&cli.StringFlag{Name: "sort", Value: "name_asc", Usage: "name_asc|name_desc|codigo_asc|codigo_desc"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					sort, err := parseSort(c.String("sort"))
					if err != nil {
						return err
					}
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.degreeTypes.Search(ctx, c.String("q"), sort)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printDegreeTypes(out)
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Add a degree type",
				Flags: []cli.Flag{&cli.StringFlag{Name: "name", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.degreeTypeCtrl.Insert(c.String("name"))
					return reportOutcome(ctx, cat.degreeTypeCtrl)
				},
			},
			{
				Name:  "update",
				Usage: "Rename a degree type",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "codigo", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.degreeTypeCtrl.Update(c.Uint("codigo"), c.String("name"))
					return reportOutcome(ctx, cat.degreeTypeCtrl)
				},
			},
			{
				Name:  "rm",
				Usage: "Soft-delete a degree type",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.degreeTypeCtrl.Delete(c.Uint("codigo"))
					return reportOutcome(ctx, cat.degreeTypeCtrl)
				},
			},
			{
				Name:  "inactivate",
				Usage: "Mark a degree type inactive",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.degreeTypeCtrl.Inactivate(c.Uint("codigo"))
					return reportOutcome(ctx, cat.degreeTypeCtrl)
				},
			},
			{
				Name:  "reactivate",
				Usage: "Mark a degree type active again",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.degreeTypeCtrl.Reactivate(c.Uint("codigo"))
					return reportOutcome(ctx, cat.degreeTypeCtrl)
				},
			},
			{
				Name:  "watch",
				Usage: "Stream the degree type list until interrupted",
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					sub, err := cat.degreeTypeCtrl.WatchAll(ctx)
					if err != nil {
						return err
					}
					defer sub.Close()
					return watchLoop(ctx, sub.Updates(), printDegreeTypes)
				},
			},
		},
	}
}

func programCommand() *cli.Command {
	return &cli.Command{
		Name:  "program",
		Usage: "Program commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all programs with resolved reference names",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Value: "name_asc", Usage: "name_asc|name_desc|codigo_asc|codigo_desc"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					sort, err := parseSort(c.String("sort"))
					if err != nil {
						return err
					}
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.programs.ObserveAll(ctx, sort)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printProgramDetails(out)
					return nil
				},
			},
			{
				Name:  "active",
				Usage: "List active programs",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.programs.ObserveActive(ctx)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printProgramDetails(out)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "Show one program by codigo",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "codigo", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					row, ok, err := cat.programs.GetByCodigo(ctx, c.Uint("codigo"))
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("program %d not found", c.Uint("codigo"))
					}
					if c.Bool("json") {
						return printJSON(row)
					}
					printKV([][2]string{
						{"codigo", uintToString(row.Codigo)},
						{"name", row.Name},
						{"state", string(row.State)},
						{"degree_type", uintToString(row.DegreeTypeCodigo)},
						{"faculty", uintToString(row.FacultyCodigo)},
						{"campus", uintToString(row.CampusCodigo)},
						{"created_at", formatTime(row.CreatedAt)},
						{"updated_at", formatTime(row.UpdatedAt)},
					})
					return nil
				},
			},
			{
				Name:  "search",
				Usage: "Search programs by name fragment",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Required: true},
					&cli.StringFlag{Name: "sort", Value: "name_asc", Usage: "name_asc|name_desc|codigo_asc|codigo_desc"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					sort, err := parseSort(c.String("sort"))
					if err != nil {
						return err
					}
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					live, err := cat.programs.Search(ctx, c.String("q"), sort)
					if err != nil {
						return err
					}
					out := firstSnapshot(live)
					if c.Bool("json") {
						return printJSON(out)
					}
					printProgramDetails(out)
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Add a program",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.UintFlag{Name: "degree-type", Required: true, Usage: "degree type codigo"},
					&cli.UintFlag{Name: "faculty", Required: true, Usage: "faculty codigo"},
					&cli.UintFlag{Name: "campus", Required: true, Usage: "campus codigo"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.programCtrl.Insert(c.String("name"), c.Uint("degree-type"), c.Uint("faculty"), c.Uint("campus"))
					return reportOutcome(ctx, cat.programCtrl)
				},
			},
			{
				Name:  "update",
				Usage: "Update a program",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "codigo", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.UintFlag{Name: "degree-type", Required: true, Usage: "degree type codigo"},
					&cli.UintFlag{Name: "faculty", Required: true, Usage: "faculty codigo"},
					&cli.UintFlag{Name: "campus", Required: true, Usage: "campus codigo"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.programCtrl.Update(c.Uint("codigo"), c.String("name"), c.Uint("degree-type"), c.Uint("faculty"), c.Uint("campus"))
					return reportOutcome(ctx, cat.programCtrl)
				},
			},
			{
				Name:  "rm",
				Usage: "Soft-delete a program",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.programCtrl.Delete(c.Uint("codigo"))
					return reportOutcome(ctx, cat.programCtrl)
				},
			},
			{
				Name:  "inactivate",
				Usage: "Mark a program inactive",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.programCtrl.Inactivate(c.Uint("codigo"))
					return reportOutcome(ctx, cat.programCtrl)
				},
			},
			{
				Name:  "reactivate",
				Usage: "Mark a program active again",
				Flags: []cli.Flag{&cli.UintFlag{Name: "codigo", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					cat.programCtrl.Reactivate(c.Uint("codigo"))
					return reportOutcome(ctx, cat.programCtrl)
				},
			},
			{
				Name:  "watch",
				Usage: "Stream the program list until interrupted",
				Action: func(ctx context.Context, c *cli.Command) error {
					cat, err := openCatalog(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer cat.close()
					sub, err := cat.programCtrl.WatchAll(ctx)
					if err != nil {
						return err
					}
					defer sub.Close()
					return watchLoop(ctx, sub.Updates(), printProgramDetails)
				},
			},
		},
	}
}

type catalog struct {
	campuses    *sqliteadapter.CampusRepository
	faculties   *sqliteadapter.FacultyRepository
	degreeTypes *sqliteadapter.DegreeTypeRepository
	programs    *sqliteadapter.ProgramRepository

	campusCtrl     *application.CampusController
	facultyCtrl    *application.FacultyController
	degreeTypeCtrl *application.DegreeTypeController
	programCtrl    *application.ProgramController
}

func openCatalog(ctx context.Context, dbPath string) (*catalog, error) {
	db, err := sqliteadapter.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	hub := livequery.NewHub()
	cat := &catalog{
		campuses:    sqliteadapter.NewCampusRepository(db, hub),
		faculties:   sqliteadapter.NewFacultyRepository(db, hub),
		degreeTypes: sqliteadapter.NewDegreeTypeRepository(db, hub),
		programs:    sqliteadapter.NewProgramRepository(db, hub),
	}
	opts := application.Options{}
	cat.campusCtrl = application.NewCampusController(cat.campuses, opts)
	cat.facultyCtrl = application.NewFacultyController(cat.faculties, opts)
	cat.degreeTypeCtrl = application.NewDegreeTypeController(cat.degreeTypes, opts)
	cat.programCtrl = application.NewProgramController(cat.programs, opts)
	return cat, nil
}

func (c *catalog) close() {
	c.campusCtrl.Close()
	c.facultyCtrl.Close()
	c.degreeTypeCtrl.Close()
	c.programCtrl.Close()
}

type messenger interface {
	Flush(ctx context.Context) error
	Message() (string, bool)
	AckMessage()
}

func reportOutcome(ctx context.Context, m messenger) error {
	if err := m.Flush(ctx); err != nil {
		return err
	}
	msg, ok := m.Message()
	if !ok {
		return nil
	}
	m.AckMessage()
	fmt.Println(msg)
	return nil
}

func firstSnapshot[T any](live domain.LiveList[T]) []T {
	rows := <-live.Updates()
	live.Close()
	return rows
}

func parseSort(s string) (domain.SortOption, error) {
	switch s {
	case "name_asc":
		return domain.SortNameAsc, nil
	case "name_desc":
		return domain.SortNameDesc, nil
	case "codigo_asc":
		return domain.SortCodigoAsc, nil
	case "codigo_desc":
		return domain.SortCodigoDesc, nil
	default:
		return "", fmt.Errorf("unknown sort option %q", s)
	}
}

func watchLoop[T any](ctx context.Context, updates <-chan []T, print func([]T)) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case rows, open := <-updates:
			if !open {
				return nil
			}
			print(rows)
			fmt.Println()
		case sig := <-sigCh:
			log.Printf("received signal %s, stopping watch", sig)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
