package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/employee-admin-client/internal/dto"
	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/internal/service"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

// listFlags mirrors the list view state on the command line. Page is one-based.
type listFlags struct {
	page   int
	limit  int
	sortBy string
	order  string
	search string
	class  string
	minAge int
	maxAge int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "page size: 4, 8, 16 or 32 (default from config)")
	cmd.Flags().StringVar(&f.sortBy, "sort", string(models.SortByName), "sort field: name, age, class or attendance")
	cmd.Flags().StringVar(&f.order, "order", string(models.SortAsc), "sort order: ASC or DESC")
	cmd.Flags().StringVar(&f.search, "search", "", "filter by name")
	cmd.Flags().StringVar(&f.class, "class", "", "filter by class")
	cmd.Flags().IntVar(&f.minAge, "min-age", 0, "minimum age")
	cmd.Flags().IntVar(&f.maxAge, "max-age", 0, "maximum age")
}

// load applies the flags to the list controller and runs the single query.
func (f *listFlags) load(cmd *cobra.Command, list *service.ListController) (service.ListSnapshot, error) {
	ctx := cmd.Context()
	if f.page < 1 {
		return service.ListSnapshot{}, appErrors.Clone(appErrors.ErrInvalidState, "page must be 1 or greater")
	}
	if f.limit != 0 {
		if err := list.SetPageSize(ctx, f.limit); err != nil {
			return service.ListSnapshot{}, err
		}
	}
	order := models.SortOrder(strings.ToUpper(f.order))
	if err := list.SetSort(ctx, models.SortField(strings.ToLower(f.sortBy)), order); err != nil {
		return service.ListSnapshot{}, err
	}
	if err := list.SearchNow(ctx, f.search); err != nil {
		return service.ListSnapshot{}, err
	}

	var minAge, maxAge *int
	if cmd.Flags().Changed("min-age") {
		minAge = &f.minAge
	}
	if cmd.Flags().Changed("max-age") {
		maxAge = &f.maxAge
	}
	if err := list.SetAttributeFilter(ctx, f.class, minAge, maxAge); err != nil {
		return service.ListSnapshot{}, err
	}
	if err := list.SetPage(ctx, f.page-1); err != nil {
		return service.ListSnapshot{}, err
	}

	if err := list.Mount(ctx); err != nil {
		return service.ListSnapshot{}, err
	}
	return list.Snapshot(), nil
}

func (c *cli) listCmd() *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List one page of employees",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.gate.Guard(cmd.Context(), func(models.User) error {
				snap, err := flags.load(cmd, c.app.list)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printEmployees(out, snap.Items)
				fmt.Fprintf(out, "page %d, %d per page", snap.State.Page+1, snap.State.PageSize)
				if snap.HasNextPage {
					fmt.Fprint(out, ", more available")
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.gate.Guard(cmd.Context(), func(models.User) error {
				emp, err := c.app.employees.FindByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printEmployee(cmd.OutOrStdout(), *emp)
				return nil
			})
		},
	}
}

// formFlags binds the employee form fields.
type formFlags struct {
	name       string
	age        int
	class      string
	subjects   string
	attendance float64
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "employee name")
	cmd.Flags().IntVar(&f.age, "age", 0, "age in years")
	cmd.Flags().StringVar(&f.class, "class", "", "class")
	cmd.Flags().StringVar(&f.subjects, "subjects", "", "comma separated subjects")
	cmd.Flags().Float64Var(&f.attendance, "attendance", 0, "attendance percentage")
}

// apply overrides values with every flag set on cmd.
func (f *formFlags) apply(cmd *cobra.Command, values dto.EmployeeFormValues) dto.EmployeeFormValues {
	changed := cmd.Flags().Changed
	if changed("name") {
		values.Name = f.name
	}
	if changed("age") {
		values.Age = f.age
	}
	if changed("class") {
		values.Class = f.class
	}
	if changed("subjects") {
		values.Subjects = dto.ParseSubjects(f.subjects)
	}
	if changed("attendance") {
		values.Attendance = f.attendance
	}
	return values
}

func (c *cli) createCmd() *cobra.Command {
	var flags formFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.gate.Guard(cmd.Context(), func(models.User) error {
				values := flags.apply(cmd, c.app.mutations.OpenCreate())
				emp, err := c.app.mutations.Create(cmd.Context(), values)
				if err != nil {
					return err
				}
				c.printNotice(cmd.OutOrStdout())
				printEmployee(cmd.OutOrStdout(), *emp)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var flags formFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an employee; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.gate.Guard(cmd.Context(), func(models.User) error {
				current, err := c.app.employees.FindByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				values := flags.apply(cmd, c.app.mutations.OpenEdit(*current))
				emp, err := c.app.mutations.Update(cmd.Context(), current.ID, values)
				if err != nil {
					return err
				}
				c.printNotice(cmd.OutOrStdout())
				printEmployee(cmd.OutOrStdout(), *emp)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an employee after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.gate.Guard(cmd.Context(), func(models.User) error {
				emp, err := c.app.employees.FindByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				confirm := promptConfirm(cmd)
				if yes {
					confirm = func(models.Employee) bool { return true }
				}
				err = c.app.mutations.Delete(cmd.Context(), *emp, confirm)
				if errors.Is(err, appErrors.ErrCancelled) {
					fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
					return nil
				}
				if err != nil {
					return err
				}
				c.printNotice(cmd.OutOrStdout())
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func promptConfirm(cmd *cobra.Command) service.ConfirmFunc {
	return func(emp models.Employee) bool {
		fmt.Fprintf(cmd.ErrOrStderr(), "Delete %s? [y/N] ", emp.Name)
		answer, err := readLine(cmd.InOrStdin())
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func (c *cli) printNotice(w io.Writer) {
	if n, ok := c.app.notes.Current(); ok {
		fmt.Fprintln(w, n.Message)
	}
}

func printEmployees(w io.Writer, items []models.Employee) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tCLASS\tSUBJECTS\tATTENDANCE")
	for _, e := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", e.ID, e.Name, e.Age, e.Class, strings.Join(e.Subjects, ", "), formatAttendance(e.Attendance))
	}
	_ = tw.Flush()
	if len(items) == 0 {
		fmt.Fprintln(w, "No employees found")
	}
}

func printEmployee(w io.Writer, e models.Employee) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", e.ID)
	fmt.Fprintf(tw, "Name\t%s\n", e.Name)
	fmt.Fprintf(tw, "Age\t%d\n", e.Age)
	fmt.Fprintf(tw, "Class\t%s\n", e.Class)
	fmt.Fprintf(tw, "Subjects\t%s\n", strings.Join(e.Subjects, ", "))
	fmt.Fprintf(tw, "Attendance\t%s\n", formatAttendance(e.Attendance))
	if e.CreatedAt != "" {
		fmt.Fprintf(tw, "Created\t%s\n", e.CreatedAt)
	}
	if e.UpdatedAt != "" {
		fmt.Fprintf(tw, "Updated\t%s\n", e.UpdatedAt)
	}
	_ = tw.Flush()
}

func formatAttendance(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

