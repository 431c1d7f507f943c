package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	appledger "github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/application/usecase"
)

type seedCmd struct {
	seed uint64
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "carga datos de prueba: bases, equipos y movimientos" }
func (*seedCmd) Usage() string {
	return `ledgerctl seed [-seed N]

  Crea bases y tipos de equipo si no existen y registra compras, transferencias,
  asignaciones con devoluciones y gastos de los últimos meses. Todo pasa por los
  mismos casos de uso que la API, como administrador.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.Uint64Var(&c.seed, "seed", 1, "Semilla del generador; la misma semilla produce los mismos datos.")
}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if _, err := a.backend.Migrate(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	s := newSeeder(a.bases, a.equipment, a.records, c.seed, time.Now().In(a.cfg.Ledger.Location()))
	summary, err := s.run(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("seed")
		return subcommands.ExitFailure
	}
	summary.print(os.Stdout)
	return subcommands.ExitSuccess
}

var (
	seedBases = []dto.CreateBaseRequest{
		{Name: "Fort Alpha", Location: "Sector Norte"},
		{Name: "Camp Bravo", Location: "Sector Este"},
		{Name: "Base Charlie", Location: "Sector Sur"},
	}
	seedEquipment = []dto.CreateEquipmentTypeRequest{
		{Name: "Rifles", Category: "weapons"},
		{Name: "Ammunition", Category: "ammunition"},
		{Name: "Vehicles", Category: "vehicles"},
		{Name: "Radios", Category: "communications"},
	}
	suppliers = []string{
		"Defense Supplies Inc.",
		"Military Equipment Corp.",
		"Global Arms Ltd.",
		"Strategic Resources Co.",
		"National Defense Suppliers",
		"Allied Equipment Group",
	}
	personnel = []string{
		"Sgt. John Smith", "Cpl. Sarah Johnson", "Lt. Michael Brown",
		"Pvt. Emily Davis", "Sgt. David Wilson", "Cpl. Jessica Martinez",
		"Lt. Robert Anderson", "Pvt. Amanda Taylor", "Sgt. Christopher Lee",
		"Cpl. Jennifer White", "Lt. Matthew Harris", "Pvt. Ashley Clark",
	}
	expenditureReasons = []string{
		"Training Exercise",
		"Combat Operations",
		"Equipment Testing",
		"Maintenance and Repair",
		"Emergency Response",
		"Tactical Drills",
		"Lost in Field",
		"Routine Consumption",
	}
	transferStatuses = []string{"pending", "in_transit", "completed"}
)

type seedSummary struct {
	Bases          int
	EquipmentTypes int
	Purchases      int
	Transfers      int
	Assignments    int
	Returns        int
	Expenditures   int
}

func (s seedSummary) print(w io.Writer) {
	fmt.Fprintf(w, "bases: %d\ntipos de equipo: %d\n", s.Bases, s.EquipmentTypes)
	fmt.Fprintf(w, "compras: %d\ntransferencias: %d\nasignaciones: %d (devoluciones: %d)\ngastos: %d\n",
		s.Purchases, s.Transfers, s.Assignments, s.Returns, s.Expenditures)
}

// seeder genera movimientos deterministas a partir de una semilla.
type seeder struct {
	bases     *usecase.BaseUseCase
	equipment *usecase.EquipmentTypeUseCase
	records   *appledger.RecordUseCase
	rng       *rand.Rand
	today     time.Time
}

func newSeeder(bases *usecase.BaseUseCase, equipment *usecase.EquipmentTypeUseCase, records *appledger.RecordUseCase, seed uint64, today time.Time) *seeder {
	return &seeder{
		bases:     bases,
		equipment: equipment,
		records:   records,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		today:     time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}
}

func (s *seeder) run(ctx context.Context) (seedSummary, error) {
	var sum seedSummary
	baseIDs, err := s.ensureBases(ctx)
	if err != nil {
		return sum, err
	}
	equipmentIDs, err := s.ensureEquipment(ctx)
	if err != nil {
		return sum, err
	}
	sum.Bases, sum.EquipmentTypes = len(baseIDs), len(equipmentIDs)
	if len(baseIDs) < 2 || len(equipmentIDs) == 0 {
		return sum, fmt.Errorf("seed: se necesitan al menos dos bases y un tipo de equipo")
	}

	for range 30 {
		_, err := s.records.RecordPurchase(ctx, operator, dto.CreatePurchaseRequest{
			BaseID:          pick(s.rng, baseIDs),
			EquipmentTypeID: pick(s.rng, equipmentIDs),
			Quantity:        s.quantity(10, 500),
			Supplier:        pick(s.rng, suppliers),
			PurchaseDate:    s.daysAgo(1, 90),
		})
		if err != nil {
			return sum, fmt.Errorf("seed purchase: %w", err)
		}
		sum.Purchases++
	}

	for range 20 {
		from := s.rng.IntN(len(baseIDs))
		to := (from + 1 + s.rng.IntN(len(baseIDs)-1)) % len(baseIDs)
		_, err := s.records.RecordTransfer(ctx, operator, dto.CreateTransferRequest{
			FromBaseID:      baseIDs[from],
			ToBaseID:        baseIDs[to],
			EquipmentTypeID: pick(s.rng, equipmentIDs),
			Quantity:        s.quantity(5, 100),
			Status:          pick(s.rng, transferStatuses),
			TransferDate:    s.daysAgo(1, 60),
		})
		if err != nil {
			return sum, fmt.Errorf("seed transfer: %w", err)
		}
		sum.Transfers++
	}

	for range 25 {
		ago := 1 + s.rng.IntN(120)
		assigned := 1 + s.rng.IntN(20)
		a, err := s.records.RecordAssignment(ctx, operator, dto.CreateAssignmentRequest{
			BaseID:          pick(s.rng, baseIDs),
			EquipmentTypeID: pick(s.rng, equipmentIDs),
			PersonnelName:   pick(s.rng, personnel),
			PersonnelID:     fmt.Sprintf("MIL-%05d", 10000+s.rng.IntN(90000)),
			Quantity:        decimal.NewFromInt(int64(assigned)),
			AssignmentDate:  s.today.AddDate(0, 0, -ago).Format(dto.DateLayout),
		})
		if err != nil {
			return sum, fmt.Errorf("seed assignment: %w", err)
		}
		sum.Assignments++

		if s.rng.Float64() < 0.3 {
			continue
		}
		returned := s.rng.IntN(assigned + 1)
		if returned == 0 {
			continue
		}
		back := min(7+s.rng.IntN(54), ago)
		_, err = s.records.RecordReturn(ctx, operator, a.ID, dto.RecordReturnRequest{
			Quantity:   decimal.NewFromInt(int64(returned)),
			ReturnDate: s.today.AddDate(0, 0, back-ago).Format(dto.DateLayout),
		})
		if err != nil {
			return sum, fmt.Errorf("seed return: %w", err)
		}
		sum.Returns++
	}

	for range 15 {
		_, err := s.records.RecordExpenditure(ctx, operator, dto.CreateExpenditureRequest{
			BaseID:          pick(s.rng, baseIDs),
			EquipmentTypeID: pick(s.rng, equipmentIDs),
			Quantity:        s.quantity(1, 50),
			Reason:          pick(s.rng, expenditureReasons),
			ExpenditureDate: s.daysAgo(1, 90),
		})
		if err != nil {
			return sum, fmt.Errorf("seed expenditure: %w", err)
		}
		sum.Expenditures++
	}
	return sum, nil
}

func (s *seeder) ensureBases(ctx context.Context) ([]string, error) {
	existing, err := s.bases.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		for _, in := range seedBases {
			b, err := s.bases.Create(ctx, in)
			if err != nil {
				return nil, fmt.Errorf("seed base %s: %w", in.Name, err)
			}
			existing = append(existing, *b)
		}
	}
	ids := make([]string, 0, len(existing))
	for _, b := range existing {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (s *seeder) ensureEquipment(ctx context.Context) ([]string, error) {
	existing, err := s.equipment.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		for _, in := range seedEquipment {
			et, err := s.equipment.Create(ctx, in)
			if err != nil {
				return nil, fmt.Errorf("seed equipment %s: %w", in.Name, err)
			}
			existing = append(existing, *et)
		}
	}
	ids := make([]string, 0, len(existing))
	for _, et := range existing {
		ids = append(ids, et.ID)
	}
	return ids, nil
}

func (s *seeder) quantity(lo, hi int) decimal.Decimal {
	return decimal.NewFromInt(int64(lo + s.rng.IntN(hi-lo+1)))
}

func (s *seeder) daysAgo(lo, hi int) string {
	return s.today.AddDate(0, 0, -(lo + s.rng.IntN(hi-lo+1))).Format(dto.DateLayout)
}

func pick[T any](rng *rand.Rand, list []T) T {
	return list[rng.IntN(len(list))]
}
