package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

var (
	userEmail    string
	userUsername string
	userPassword string

	usersPage int
	usersSize int
	usersJSON bool

	usersClearYes bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the B-tree indexed user table",
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user with the next free ID",
	Args:  cobra.NoArgs,
	RunE:  runUsersAdd,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Look a user up through the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of an existing user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a user",
	Args:    cobra.ExactArgs(1),
	RunE:    runUsersDelete,
}

var usersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List one page of users in ID order",
	Args:    cobra.NoArgs,
	RunE:    runUsersList,
}

var usersCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of users",
	Args:  cobra.NoArgs,
	RunE:  runUsersCount,
}

var usersGenerateCmd = &cobra.Command{
	Use:   "generate <n>",
	Short: "Append n synthetic users",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGenerate,
}

var usersImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import users from CSV",
	Long: `Import users from CSV rows of id,email,username,password, with an
optional header. An empty id, or a row of only email,username,password,
gets the next free ID. Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersImport,
}

var usersExportCmd = &cobra.Command{
	Use:   "export [file|-]",
	Short: "Export every user as CSV",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUsersExport,
}

var usersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every user",
	Args:  cobra.NoArgs,
	RunE:  runUsersClear,
}

func init() {
	for _, c := range []*cobra.Command{usersAddCmd, usersUpdateCmd} {
		c.Flags().StringVar(&userEmail, "email", "", "email address")
		c.Flags().StringVar(&userUsername, "username", "", "username")
		c.Flags().StringVar(&userPassword, "password", "", "password")
	}

	usersListCmd.Flags().IntVar(&usersPage, "page", 1, "page number, starting at 1")
	usersListCmd.Flags().IntVar(&usersSize, "size", 0, "rows per page (default from settings)")
	usersListCmd.Flags().BoolVar(&usersJSON, "json", false, "output as JSON")
	usersGetCmd.Flags().BoolVar(&usersJSON, "json", false, "output as JSON")

	usersClearCmd.Flags().BoolVarP(&usersClearYes, "yes", "y", false, "skip the confirmation check")

	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCountCmd)
	usersCmd.AddCommand(usersGenerateCmd)
	usersCmd.AddCommand(usersImportCmd)
	usersCmd.AddCommand(usersExportCmd)
	usersCmd.AddCommand(usersClearCmd)
	rootCmd.AddCommand(usersCmd)
}

func requireUsers() error {
	if userService == nil {
		return errors.New("user service not configured")
	}
	return nil
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: user id must be a positive integer, got %q", domain.ErrInvalidInput, s)
	}
	return id, nil
}

func runUsersAdd(cmd *cobra.Command, _ []string) error {
	if err := requireUsers(); err != nil {
		return err
	}

	u, err := userService.Create(cmd.Context(), domain.User{
		Email:    userEmail,
		Username: userUsername,
		Password: userPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	cmd.Printf("Added user %d\n", u.ID)
	return nil
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	if err := requireUsers(); err != nil {
		return err
	}
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	lookup, err := userService.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if usersJSON {
		return printJSON(cmd, lookup)
	}
	cmd.Println(lookup.User)
	cmd.Printf("Comparisons: %d\n", lookup.Comparisons)
	return nil
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	if err := requireUsers(); err != nil {
		return err
	}
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	lookup, err := userService.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	u := lookup.User
	flags := cmd.Flags()
	if !flags.Changed("email") && !flags.Changed("username") && !flags.Changed("password") {
		return fmt.Errorf("%w: nothing to update, set --email, --username or --password", domain.ErrInvalidInput)
	}
	if flags.Changed("email") {
		u.Email = userEmail
	}
	if flags.Changed("username") {
		u.Username = userUsername
	}
	if flags.Changed("password") {
		u.Password = userPassword
	}

	if err := userService.Update(cmd.Context(), u); err != nil {
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	cmd.Printf("Updated user %d\n", id)
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	if err := requireUsers(); err != nil {
		return err
	}
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	if err := userService.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	cmd.Printf("Deleted user %d\n", id)
	return nil
}

func runUsersList(cmd *cobra.Command, _ []string) error {
	if err := requireUsers(); err != nil {
		return err
	}
	if usersPage < 1 {
		return fmt.Errorf("%w: page must be at least 1", domain.ErrInvalidInput)
	}

	page, err := userService.Page(cmd.Context(), usersPage-1, usersSize)
	if err != nil {
		return err
	}
	if usersJSON {
		return printJSON(cmd, page)
	}
	if page.Total == 0 {
		cmd.Println("No users. Add one with 'ad users add' or 'ad users generate <n>'.")
		return nil
	}

	t := newTable("ID", "Email", "Username", "Password")
	for _, u := range page.Users {
		t.Row(strconv.FormatInt(u.ID, 10), u.Email, u.Username, u.Password)
	}
	cmd.Println(t.Render())
	cmd.Printf("Page %d of %d (%d users)\n", page.Index+1, page.Pages, page.Total)
	return nil
}

func runUsersCount(cmd *cobra.Command, _ []string) error {
	if err := requireUsers(); err != nil {
		return err
	}
	n, err := userService.Count(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Println(n)
	return nil
}

func runUsersGenerate(cmd *cobra.Command, args []string) error {
	if err := requireUsers(); err != nil {
		return err
	}
	n, err := positiveInt("n", args[0])
	if err != nil {
		return err
	}

	added, err := userService.Generate(cmd.Context(), n)
	if err != nil {
		return err
	}
	cmd.Printf("Generated %d users\n", added)
	return nil
}

func runUsersImport(cmd *cobra.Command, args []string) error {
	if err := requireUsers(); err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	n, err := userService.Import(cmd.Context(), r)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Printf("Imported %d users\n", n)
	return nil
}

func runUsersExport(cmd *cobra.Command, args []string) error {
	if err := requireUsers(); err != nil {
		return err
	}

	if len(args) == 0 || args[0] == "-" {
		_, err := userService.Export(cmd.Context(), cmd.OutOrStdout())
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[0], err)
	}
	n, err := userService.Export(cmd.Context(), f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	cmd.Printf("Exported %d users to %s\n", n, args[0])
	return nil
}

func runUsersClear(cmd *cobra.Command, _ []string) error {
	if err := requireUsers(); err != nil {
		return err
	}
	if !usersClearYes {
		return fmt.Errorf("%w: refusing to delete every user without --yes", domain.ErrInvalidInput)
	}
	if err := userService.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Deleted every user")
	return nil
}
