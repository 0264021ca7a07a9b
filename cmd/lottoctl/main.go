// Command lottoctl drives a running lotto server over its HTTP API
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/vrf"
)

const (
	apiPrefix  = "/api/v1"
	defaultURL = "http://localhost:8080"
)

var (
	urlFlag = cli.StringFlag{
		Name:   "url",
		Usage:  "Base URL of the lotto server",
		Value:  defaultURL,
		EnvVar: "LOTTO_URL",
	}
	apiKeyFlag = cli.StringFlag{
		Name:   "api-key",
		Usage:  "API key sent in the X-API-Key header",
		EnvVar: "API_KEY",
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lottoctl"
	app.Usage = "inspect and drive a lotto pool"
	app.Version = "1.0.0"
	app.Writer = os.Stdout
	app.Flags = []cli.Flag{urlFlag, apiKeyFlag}
	app.Commands = []cli.Command{
		{
			Name:   "status",
			Usage:  "Show the pool state",
			Action: get(func(*cli.Context) (string, error) { return "/pool", nil }),
		},
		{
			Name:      "enter",
			Usage:     "Enter the pool",
			ArgsUsage: "<address>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "value", Usage: "Amount paid in wei"},
			},
			Action: enter,
		},
		{
			Name:   "players",
			Usage:  "Show the number of participants",
			Action: get(func(*cli.Context) (string, error) { return "/pool/players", nil }),
		},
		{
			Name:      "player",
			Usage:     "Show the participant at an index",
			ArgsUsage: "<index>",
			Action: get(func(c *cli.Context) (string, error) {
				i, err := strconv.Atoi(c.Args().First())
				if err != nil || i < 0 {
					return "", fmt.Errorf("invalid index %q", c.Args().First())
				}
				return "/pool/players/" + strconv.Itoa(i), nil
			}),
		},
		{
			Name:   "check-upkeep",
			Usage:  "Report whether a draw is due",
			Action: get(func(*cli.Context) (string, error) { return "/upkeep", nil }),
		},
		{
			Name:  "perform-upkeep",
			Usage: "Start a draw",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "data", Usage: "0x-prefixed perform data, ignored by the pool"},
			},
			Action: performUpkeep,
		},
		{
			Name:      "fulfill",
			Usage:     "Have the local coordinator deliver words for a pending request",
			ArgsUsage: "<request-id>",
			Flags: []cli.Flag{
				cli.StringSliceFlag{Name: "word", Usage: "Override word, repeatable"},
			},
			Action: fulfill,
		},
		{
			Name:      "deliver",
			Usage:     "Sign random words with the oracle key and deliver them to the callback",
			ArgsUsage: "<request-id>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "key", Usage: "Hex secp256k1 oracle key", EnvVar: "ORACLE_KEY"},
				cli.StringSliceFlag{Name: "word", Usage: "Random word, repeatable"},
			},
			Action: deliver,
		},
		{
			Name:  "draws",
			Usage: "List recent draws",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "limit", Usage: "Maximum number of draws", Value: 10},
			},
			Action: get(func(c *cli.Context) (string, error) {
				q := url.Values{}
				q.Set("limit", strconv.Itoa(c.Int("limit")))
				return "/draws?" + q.Encode(), nil
			}),
		},
		{
			Name:      "draw",
			Usage:     "Show one draw",
			ArgsUsage: "<request-id>",
			Action: get(func(c *cli.Context) (string, error) {
				id, err := parseRequestID(c.Args().First())
				if err != nil {
					return "", err
				}
				return "/draws/" + strconv.FormatUint(id, 10), nil
			}),
		},
		{
			Name:      "account",
			Usage:     "Show the credited balance of an address",
			ArgsUsage: "<address>",
			Action: get(func(c *cli.Context) (string, error) {
				addr, err := parseAddress(c.Args().First())
				if err != nil {
					return "", err
				}
				return "/accounts/" + addr.Hex(), nil
			}),
		},
		{
			Name:   "reset-draw",
			Usage:  "Abandon a draw that has waited past the timeout",
			Action: resetDraw,
		},
		{
			Name:      "set-policy",
			Usage:     "Mark an address as accepting or refusing payouts",
			ArgsUsage: "<address>",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "rejects", Usage: "Refuse payouts"},
			},
			Action: setPolicy,
		},
	}
	return app
}

func client(c *cli.Context) *APIClient {
	return NewAPIClient(c.GlobalString(urlFlag.Name), c.GlobalString(apiKeyFlag.Name))
}

// get builds an action that fetches the path returned by path
func get(path func(*cli.Context) (string, error)) func(*cli.Context) error {
	return func(c *cli.Context) error {
		p, err := path(c)
		if err != nil {
			return err
		}
		return call(c, http.MethodGet, p, nil)
	}
}

func call(c *cli.Context, method, path string, body interface{}) error {
	data, err := client(c).Do(method, apiPrefix+path, body)
	if err != nil {
		return err
	}
	return printJSON(c, data)
}

func printJSON(c *cli.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		_, err = c.App.Writer.Write(data)
		return err
	}
	out.WriteByte('\n')
	_, err := c.App.Writer.Write(out.Bytes())
	return err
}

func enter(c *cli.Context) error {
	addr, err := parseAddress(c.Args().First())
	if err != nil {
		return err
	}
	value := c.String("value")
	if _, ok := new(big.Int).SetString(value, 10); !ok {
		return fmt.Errorf("invalid value %q", value)
	}
	return call(c, http.MethodPost, "/pool/enter", map[string]string{
		"address": addr.Hex(),
		"value":   value,
	})
}

func performUpkeep(c *cli.Context) error {
	return call(c, http.MethodPost, "/upkeep", map[string]string{"perform_data": c.String("data")})
}

func fulfill(c *cli.Context) error {
	id, err := parseRequestID(c.Args().First())
	if err != nil {
		return err
	}
	words := c.StringSlice("word")
	for _, w := range words {
		if _, ok := new(big.Int).SetString(w, 10); !ok {
			return fmt.Errorf("invalid word %q", w)
		}
	}
	return call(c, http.MethodPost, "/vrf/fulfill/"+strconv.FormatUint(id, 10), map[string][]string{"random_words": words})
}

// deliver plays the external oracle: the pool accepts the words only when the
// key's address is its coordinator
func deliver(c *cli.Context) error {
	id, err := parseRequestID(c.Args().First())
	if err != nil {
		return err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(c.String("key"), "0x"))
	if err != nil {
		return fmt.Errorf("invalid oracle key: %w", err)
	}
	raw := c.StringSlice("word")
	if len(raw) == 0 {
		return fmt.Errorf("at least one --word is required")
	}
	words := make([]*big.Int, len(raw))
	for i, w := range raw {
		v, ok := new(big.Int).SetString(w, 10)
		if !ok || v.Sign() < 0 {
			return fmt.Errorf("invalid word %q", w)
		}
		words[i] = v
	}
	sig, err := vrf.SignDelivery(key, domain.RequestID(id), words)
	if err != nil {
		return err
	}
	return call(c, http.MethodPost, "/vrf/callback", map[string]interface{}{
		"request_id":   id,
		"random_words": raw,
		"signature":    hexutil.Encode(sig),
	})
}

func resetDraw(c *cli.Context) error {
	return call(c, http.MethodPost, "/admin/draw/reset", nil)
}

func setPolicy(c *cli.Context) error {
	addr, err := parseAddress(c.Args().First())
	if err != nil {
		return err
	}
	return call(c, http.MethodPost, "/admin/accounts/"+addr.Hex()+"/policy", map[string]bool{
		"rejects_payments": c.Bool("rejects"),
	})
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseRequestID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid request id %q", s)
	}
	return id, nil
}
