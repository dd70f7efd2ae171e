// Command registry-client drives the exam attestation registry API from the
// command line.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/zkpvault/attestation-registry/client"
	"github.com/zkpvault/attestation-registry/cryptoutils"
	"github.com/zkpvault/attestation-registry/interfaces"
)

var flagServerAddr *cli.StringFlag = &cli.StringFlag{
	Name:  "registry-server-addr",
	Value: "http://127.0.0.1:8080",
	Usage: "Registry server address to request",
}
var flagCaller *cli.StringFlag = &cli.StringFlag{
	Name:     "caller",
	Required: true,
	Usage:    "Account address to present as the caller. 40-char hex string, 0x prefix optional",
}
var flagExamID *cli.StringFlag = &cli.StringFlag{
	Name:     "exam-id",
	Required: true,
	Usage:    "Exam identifier",
}
var flagIdentityHash *cli.StringFlag = &cli.StringFlag{
	Name:  "identity-hash",
	Usage: "32-byte student identity hash as hex. Mutually exclusive with --identity",
}
var flagIdentity *cli.StringFlag = &cli.StringFlag{
	Name:  "identity",
	Usage: "Raw student identity, hashed locally together with --salt",
}
var flagSalt *cli.StringFlag = &cli.StringFlag{
	Name:  "salt",
	Usage: "Salt mixed into the locally computed identity hash",
}

func main() {
	app := &cli.App{
		Name:  "registry client",
		Usage: "Create exams and submit or inspect proof attestations",
		Flags: []cli.Flag{
			flagServerAddr,
			flagCaller,
		},
		Commands: []*cli.Command{
			{
				Name:        "create-exam",
				Description: "Register a new exam window under the caller's authority",
				Flags: []cli.Flag{
					flagExamID,
					&cli.Uint64Flag{
						Name:  "duration-minutes",
						Value: 60,
						Usage: "Submission window length in minutes",
					},
					&cli.Uint64Flag{
						Name:  "min-trust-score",
						Value: 70,
						Usage: "Minimum accepted trust score, 0 to 100",
					},
				},
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					examID, err := interfaces.NewExamID(cCtx.String(flagExamID.Name))
					if err != nil {
						return err
					}
					resp, err := c.CreateExam(cCtx.Context, examID, cCtx.Uint64("duration-minutes"), cCtx.Uint64("min-trust-score"))
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:        "submit-proof",
				Description: "Submit a verified proof attestation for a student",
				Flags: []cli.Flag{
					flagExamID,
					flagIdentityHash,
					flagIdentity,
					flagSalt,
					&cli.Uint64Flag{
						Name:     "trust-score",
						Required: true,
						Usage:    "Verified trust score, 0 to 100",
					},
					&cli.StringFlag{
						Name:  "proof-hash",
						Usage: "32-byte proof hash as hex. Mutually exclusive with --proof-file",
					},
					&cli.StringFlag{
						Name:  "proof-file",
						Usage: "File whose contents are hashed into the proof hash",
					},
				},
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					examID, err := interfaces.NewExamID(cCtx.String(flagExamID.Name))
					if err != nil {
						return err
					}
					identityHash, err := identityHashFromFlags(cCtx)
					if err != nil {
						return err
					}
					proofHash, err := proofHashFromFlags(cCtx)
					if err != nil {
						return err
					}
					resp, err := c.SubmitProof(cCtx.Context, examID, identityHash, cCtx.Uint64("trust-score"), proofHash)
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:        "get-proof",
				Description: "Fetch a stored attestation",
				Flags: []cli.Flag{
					flagExamID,
					flagIdentityHash,
					flagIdentity,
					flagSalt,
				},
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					examID, identityHash, err := examAndIdentity(cCtx)
					if err != nil {
						return err
					}
					resp, err := c.GetProof(cCtx.Context, examID, identityHash)
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:        "get-exam",
				Description: "Fetch exam configuration and window",
				Flags:       []cli.Flag{flagExamID},
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					examID, err := interfaces.NewExamID(cCtx.String(flagExamID.Name))
					if err != nil {
						return err
					}
					resp, err := c.GetExamMetadata(cCtx.Context, examID)
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:        "close-exam",
				Description: "Deactivate an exam so no further submissions are accepted",
				Flags:       []cli.Flag{flagExamID},
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					examID, err := interfaces.NewExamID(cCtx.String(flagExamID.Name))
					if err != nil {
						return err
					}
					resp, err := c.CloseExam(cCtx.Context, examID)
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:        "verify",
				Description: "Check whether an attestation exists for a student",
				Flags: []cli.Flag{
					flagExamID,
					flagIdentityHash,
					flagIdentity,
					flagSalt,
				},
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					examID, identityHash, err := examAndIdentity(cCtx)
					if err != nil {
						return err
					}
					exists, err := c.VerifyProofExists(cCtx.Context, examID, identityHash)
					if err != nil {
						return err
					}
					fmt.Println(exists)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) (*client.Client, error) {
	caller, err := interfaces.NewAccountAddressFromHex(cCtx.String(flagCaller.Name))
	if err != nil {
		return nil, fmt.Errorf("could not parse caller address: %w", err)
	}
	return &client.Client{
		ServerAddr: cCtx.String(flagServerAddr.Name),
		Caller:     caller,
	}, nil
}

func identityHashFromFlags(cCtx *cli.Context) (interfaces.IdentityHash, error) {
	if hexHash := cCtx.String(flagIdentityHash.Name); hexHash != "" {
		return interfaces.NewIdentityHashFromHex(hexHash)
	}
	if identity := cCtx.String(flagIdentity.Name); identity != "" {
		return cryptoutils.IdentityHashFor([]byte(identity), []byte(cCtx.String(flagSalt.Name))), nil
	}
	return interfaces.IdentityHash{}, fmt.Errorf("either --%s or --%s is required", flagIdentityHash.Name, flagIdentity.Name)
}

func proofHashFromFlags(cCtx *cli.Context) (interfaces.ProofHash, error) {
	if hexHash := cCtx.String("proof-hash"); hexHash != "" {
		return interfaces.NewProofHashFromHex(hexHash)
	}
	if path := cCtx.String("proof-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return interfaces.ProofHash{}, fmt.Errorf("could not read proof file: %w", err)
		}
		return cryptoutils.ProofHashFor(data), nil
	}
	return interfaces.ProofHash{}, fmt.Errorf("either --proof-hash or --proof-file is required")
}

func examAndIdentity(cCtx *cli.Context) (interfaces.ExamID, interfaces.IdentityHash, error) {
	examID, err := interfaces.NewExamID(cCtx.String(flagExamID.Name))
	if err != nil {
		return "", interfaces.IdentityHash{}, err
	}
	identityHash, err := identityHashFromFlags(cCtx)
	if err != nil {
		return "", interfaces.IdentityHash{}, err
	}
	return examID, identityHash, nil
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
