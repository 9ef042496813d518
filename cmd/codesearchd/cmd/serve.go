package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// request is one line of the serve command's newline-delimited JSON
// protocol: an operation name plus its arguments, routed straight to
// dispatcher.Dispatch (spec §1 treats RPC framing as an external
// collaborator's concern — this is the thinnest possible stand-in).
type request struct {
	Operation string         `json:"operation"`
	Args      map[string]any `json:"args"`
}

type response struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve dispatcher operations as newline-delimited JSON over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, cleanup, err := setupLogger()
			if err != nil {
				return err
			}
			defer cleanup()

			d, err := buildDispatcher(cfg, logger)
			if err != nil {
				return err
			}

			in := bufio.NewScanner(cmd.InOrStdin())
			in.Buffer(make([]byte, 64*1024), 4*1024*1024)
			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)

			for in.Scan() {
				line := in.Bytes()
				if len(line) == 0 {
					continue
				}

				var req request
				if err := json.Unmarshal(line, &req); err != nil {
					_ = enc.Encode(response{Error: fmt.Sprintf("invalid request: %v", err)})
					continue
				}

				result, err := d.Dispatch(cmd.Context(), req.Operation, req.Args)
				if err != nil {
					_ = enc.Encode(response{Error: err.Error()})
					continue
				}
				_ = enc.Encode(response{Result: result})
			}
			if err := in.Err(); err != nil && err != io.EOF {
				return err
			}
			return nil
		},
	}
}
