package cmd

import (
	"fmt"
	"os"

	"github.com/samsched/samsched/cmd/common"
	"github.com/urfave/cli"
)

func importAchievements(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if path == "" {
		return common.PrintErrWithCmdHelp(ctx, fmt.Errorf("error: no achievement file provided"))
	}
	f, err := os.Open(path)
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "open_file", err)
		return nil
	}
	defer f.Close()

	st, err := openStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "open_store", err)
		return nil
	}
	defer st.Close()

	n, err := st.Import(f)
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "import", err)
		return nil
	}
	fmt.Printf("Imported %d achievement(s) for game %s\n", n, gameID)
	return nil
}
