package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/mrsinham/vitalis/internal/bootstrap"
	"github.com/mrsinham/vitalis/internal/config"
	"github.com/mrsinham/vitalis/internal/gateway"
	"github.com/mrsinham/vitalis/internal/logger"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

func main() {
	count := flag.Int("n", 25, "number of check-ins to create")
	seed := flag.Uint64("seed", 0, "random seed (0 = time based)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", nil).WithError(err).Fatal("config load error")
	}
	log := logger.New(cfg.LogLevel, nil)
	entry := log.WithComponent("seed")

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	faker := gofakeit.New(*seed)
	rng := rand.New(rand.NewPCG(*seed, 0))

	// Spread check-ins over today's opening hours so the analytics view has shape.
	y, m, dd := time.Now().Date()
	day := time.Date(y, m, dd, 0, 0, 0, 0, time.Local)
	var clock time.Time
	now := func() time.Time { return clock }

	ctx := context.Background()
	rt, err := bootstrap.Open(ctx, cfg, entry, bootstrap.Options{
		Gateway: []gateway.Option{gateway.WithClock(now)},
	})
	if err != nil {
		entry.WithError(err).Fatal("open runtime")
	}
	defer rt.Close()

	entry.WithField("count", *count).Info("seed starting")

	synced := 0
	for i := 0; i < *count; i++ {
		clock = day.Add(time.Duration(7+rng.IntN(12))*time.Hour + time.Duration(rng.IntN(60))*time.Minute)

		rec, err := rt.Gateway.Submit(ctx, fakeDraft(faker, rng))
		if err != nil {
			entry.WithError(err).Fatal("submit check-in")
		}
		if rec.Synced {
			synced++
		}
		entry.WithField("record_id", rec.ID).Debug("check-in seeded")
	}

	entry.WithField("count", *count).WithField("synced", synced).Info("seed complete")
}

func fakeDraft(f *gofakeit.Faker, rng *rand.Rand) patient.Draft {
	d := patient.NewDraft()

	d.FirstName = f.FirstName()
	d.LastName = f.LastName()
	dob := f.DateRange(time.Now().AddDate(-90, 0, 0), time.Now().AddDate(-1, 0, 0))
	d.DOB = dob.Format(patient.DisplayDateLayout)
	d.Gender = patient.Genders[rng.IntN(len(patient.Genders))]
	d.CivilStatus = patient.CivilStatuses[rng.IntN(len(patient.CivilStatuses))]
	d.Phone = f.Numerify("09#########")
	d.AddressLine1 = f.Street()
	d.City = f.City()
	d.State = f.State()
	d.ZipCode = f.Numerify("####")

	if rng.IntN(4) == 0 {
		d.GuardianName = f.Name()
		d.GuardianPhone = f.Numerify("+639#########")
	}

	sampler := vitals.NewRandomSampler(rng)
	for _, c := range vitals.DefaultConfigs() {
		s := sampler.Sample(c.Kind)
		if !s.OK {
			continue
		}
		d.Vitals[c.Kind] = vitals.Measurement{
			Value:      s.Value,
			Unit:       c.Unit,
			Severity:   vitals.Analyze(c.Kind, s.Value),
			CapturedAt: time.Now(),
		}
	}
	return d
}
