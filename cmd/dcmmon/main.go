package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/robotalks/dcm.go/pkg/codec"
	fx "github.com/robotalks/dcm.go/pkg/framework"
	pb "github.com/robotalks/dcm.go/pkg/proto/dcm/v1"
	"github.com/robotalks/dcm.go/pkg/report"
)

var (
	mqttURL    = "mqtt://localhost:1883/"
	outputJSON bool
)

func init() {
	if val := os.Getenv("DCM_REPORT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print reports in JSON.")
}

func printReport(dcmID string, r *pb.ExchangeReport, err error) {
	if err != nil {
		log.Printf("%s: bad report: %v", dcmID, err)
		return
	}
	if outputJSON {
		out, _ := json.Marshal(r)
		log.Println(string(out))
		return
	}
	at := time.Unix(0, r.TimestampMs*int64(time.Millisecond))
	log.Printf("%s: [%s] %s %s@%s %s %s (%dus) by %q",
		dcmID, at.Format(time.RFC3339), r.Id, r.Function, r.Port, r.Mode, r.Status, r.DurationUs, r.Operator)
	if r.Error != "" {
		log.Printf("%s:   error: %s", dcmID, r.Error)
	}
	if resp, err := codec.Decode(r.Response); err == nil {
		log.Printf("%s:   %s", dcmID, resp.String())
	} else if len(r.Response) > 0 {
		log.Printf("%s:   % x", dcmID, r.Response)
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := report.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}
	if err = report.Subscribe(q, printReport); err != nil {
		log.Fatalln(err)
	}
	fx.NewRunner().HandleSignals().Go(fx.RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return q.Close()
	})).Wait()
}
