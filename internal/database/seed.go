package database

import (
	"context"
	"fmt"
	"strings"
)

// seed fills one reference table when it is empty. rows may read parent
// tables to resolve generated ids by name.
type seed struct {
	table   string
	columns []string
	rows    func(ctx context.Context, conn Conn) ([][]any, error)
}

func static(rows [][]any) func(context.Context, Conn) ([][]any, error) {
	return func(context.Context, Conn) ([][]any, error) { return rows, nil }
}

func (s seed) insertSQL() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(s.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s(%s) VALUES(%s)", s.table, strings.Join(s.columns, ", "), marks)
}

func (b *Bootstrapper) seed(ctx context.Context) error {
	for _, s := range b.seeds {
		if err := b.seedTable(ctx, s); err != nil {
			_ = b.conn.Rollback(ctx)
			return &SchemaError{Step: "seed", Table: s.table, Err: err}
		}
	}
	if err := b.conn.Commit(ctx); err != nil {
		return &SchemaError{Step: "seed", Err: err}
	}
	return nil
}

func (b *Bootstrapper) seedTable(ctx context.Context, s seed) error {
	n, err := CountRows(ctx, b.conn, s.table)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	rows, err := s.rows(ctx, b.conn)
	if err != nil {
		return err
	}
	insert := s.insertSQL()
	for _, r := range rows {
		if _, err := b.conn.Exec(ctx, insert, r...); err != nil {
			return err
		}
	}
	return nil
}

// CountRows returns the exact number of rows in table.
func CountRows(ctx context.Context, conn Conn, table string) (int64, error) {
	row, err := conn.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) AS n FROM %s", table))
	if err != nil {
		return 0, err
	}
	return row.Int64("n"), nil
}

// idsByName maps the name column of table to its generated ids.
func idsByName(ctx context.Context, conn Conn, table string) (map[string]int64, error) {
	rows, err := conn.Query(ctx, fmt.Sprintf("SELECT id, name FROM %s", table))
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(rows))
	for _, r := range rows {
		ids[r.String("name")] = r.Int64("id")
	}
	return ids, nil
}

func lookup(ids map[string]int64, table, name string) (int64, error) {
	id, ok := ids[name]
	if !ok {
		return 0, fmt.Errorf("no %s row named %q", table, name)
	}
	return id, nil
}

type medicineSeed struct {
	slug, name, generic, brand, description string
	price                                   float64
	stock                                   int64
	category, image                         string
}

var medicineSeeds = []medicineSeed{
	{"paracetamol", "Paracetamol 500mg Tablets", "Paracetamol", "Bell's", "Pain relief and fever reducer.", 45.0, 1000, "Pain Relief", "https://images.unsplash.com/photo-1559757148-5c350d0d3c56?w=200&h=200&fit=crop&crop=center"},
	{"ibuprofen", "Ibuprofen 400mg Tablets", "Ibuprofen", "Generic", "NSAID for pain and inflammation.", 65.0, 800, "Pain Relief", "https://images.unsplash.com/photo-1587854692152-cbe660dbde88?w=200&h=200&fit=crop&crop=center"},
	{"amoxicillin", "Amoxicillin 500mg Capsules", "Amoxicillin", "Generic", "Broad-spectrum antibiotic.", 120.0, 500, "Antibiotic", "https://images.unsplash.com/photo-1584308666744-24d5c474f2ae?w=200&h=200&fit=crop&crop=center"},
	{"metformin", "Metformin 500mg Tablets", "Metformin", "Generic", "Type 2 diabetes management.", 75.0, 1200, "Diabetes", "https://images.unsplash.com/photo-1576671081837-49000212a370?w=200&h=200&fit=crop&crop=center"},
	{"vitamin-d", "Vitamin D3 1000 IU Tablets", "Cholecalciferol", "Generic", "Bone health and immunity support.", 350.0, 300, "Vitamins", "https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=200&h=200&fit=crop&crop=center"},
	{"atorvastatin", "Atorvastatin 20mg Tablets", "Atorvastatin", "Generic", "Cholesterol management.", 180.0, 600, "Cardiovascular", "https://images.unsplash.com/photo-1584308666744-24d5c474f2ae?w=200&h=200&fit=crop&crop=center"},
	{"omeprazole", "Omeprazole 20mg Tablets", "Omeprazole", "Generic", "Acid reflux treatment.", 95.0, 700, "Digestive", "https://images.unsplash.com/photo-1559757148-5c350d0d3c56?w=200&h=200&fit=crop&crop=center"},
	{"betadine", "Betadine Povidone-Iodine Ointment", "Povidone-Iodine", "Betadine", "Antiseptic ointment.", 180.0, 250, "Antiseptic", "https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=200&h=200&fit=crop&crop=center"},
	{"insulin", "Generic Semglee Insulin Glargine", "Insulin Glargine", "Semglee", "Long-acting insulin.", 1250.0, 100, "Prescription", "https://images.unsplash.com/photo-1576671081837-49000212a370?w=200&h=200&fit=crop&crop=center"},
}

func medicineRows(ctx context.Context, conn Conn) ([][]any, error) {
	categories, err := idsByName(ctx, conn, "categories")
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(medicineSeeds))
	for _, m := range medicineSeeds {
		categoryID, err := lookup(categories, "categories", m.category)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []any{m.slug, m.name, m.generic, m.brand, m.description, m.price, m.stock, categoryID, m.image})
	}
	return rows, nil
}

func labTestRows(ctx context.Context, conn Conn) ([][]any, error) {
	labs, err := idsByName(ctx, conn, "labs")
	if err != nil {
		return nil, err
	}
	tests := []struct {
		name, category string
		price          float64
		lab            string
	}{
		{"Complete Blood Count (CBC)", "Hematology", 399.0, "SRL Diagnostics"},
		{"Lipid Profile", "Biochemistry", 699.0, "Lal PathLabs"},
		{"Thyroid Profile (T3, T4, TSH)", "Hormone", 499.0, "SRL Diagnostics"},
	}
	rows := make([][]any, 0, len(tests))
	for _, t := range tests {
		labID, err := lookup(labs, "labs", t.lab)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []any{t.name, t.category, t.price, labID})
	}
	return rows, nil
}

// seeds run in order; parents precede the tables that look them up.
var seeds = []seed{
	{
		table:   "categories",
		columns: []string{"name"},
		rows: static([][]any{
			{"Pain Relief"}, {"Antibiotic"}, {"Diabetes"}, {"Vitamins"},
			{"Cardiovascular"}, {"Antiseptic"}, {"Digestive"}, {"Prescription"},
		}),
	},
	{
		table:   "medicines",
		columns: []string{"slug", "name", "generic_name", "brand", "description", "price", "stock", "category_id", "image_url"},
		rows:    medicineRows,
	},
	{
		table:   "doctors",
		columns: []string{"name", "specialty", "experience_years", "consultation_fee", "image_url"},
		rows: static([][]any{
			{"Aisha Khan", "Dermatology", int64(8), 199.0, "https://randomuser.me/api/portraits/women/33.jpg"},
			{"Ravi Verma", "General Medicine", int64(12), 199.0, "https://randomuser.me/api/portraits/men/32.jpg"},
			{"Neha Sharma", "Pediatrics", int64(6), 199.0, "https://randomuser.me/api/portraits/women/65.jpg"},
		}),
	},
	{
		table:   "labs",
		columns: []string{"name", "city", "contact"},
		rows: static([][]any{
			{"SRL Diagnostics", "Mumbai", "+91-90000-00001"},
			{"Lal PathLabs", "Delhi", "+91-90000-00002"},
		}),
	},
	{
		table:   "lab_tests",
		columns: []string{"name", "category", "price", "lab_id"},
		rows:    labTestRows,
	},
	{
		table:   "delivery_persons",
		columns: []string{"name", "phone", "vehicle_number"},
		rows: static([][]any{
			{"Arjun Mehta", "+91-98000-00011", "MH-01-AB-1234"},
			{"Priya Nair", "+91-98000-00012", "DL-03-CD-5678"},
		}),
	},
}
