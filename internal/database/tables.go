package database

import (
	"fmt"

	"genricycle/internal/models"
)

func id() models.ColumnDef { return models.ColumnDef{Name: "id", Kind: models.KindID} }

func text(name string) models.ColumnDef { return models.ColumnDef{Name: name, Kind: models.KindText} }

func integer(name string) models.ColumnDef {
	return models.ColumnDef{Name: name, Kind: models.KindInteger}
}

func float(name string) models.ColumnDef { return models.ColumnDef{Name: name, Kind: models.KindReal} }

func createdAt() models.ColumnDef {
	return models.ColumnDef{Name: "created_at", Kind: models.KindTimestamp}
}

func notNull(c models.ColumnDef) models.ColumnDef {
	c.NotNull = true
	return c
}

func withDefault(c models.ColumnDef, def string) models.ColumnDef {
	c.Default = def
	return c
}

func unique(c models.ColumnDef) models.ColumnDef {
	c.Unique = true
	return c
}

func references(column, table, onDelete string) models.ForeignKeyDef {
	return models.ForeignKeyDef{Column: column, RefTable: table, RefColumn: "id", OnDelete: onDelete}
}

// Tables is the full schema in creation order: every table comes after the
// tables its foreign keys point at.
var Tables = []models.TableDef{
	// independent reference tables
	{
		Name:    "categories",
		Columns: []models.ColumnDef{id(), notNull(unique(text("name")))},
	},
	{
		Name: "medicines",
		Columns: []models.ColumnDef{
			id(), text("slug"), notNull(text("name")), text("generic_name"), text("brand"),
			text("description"), notNull(float("price")), withDefault(integer("stock"), "0"),
			integer("category_id"), text("image_url"), createdAt(),
		},
		ForeignKeys: []models.ForeignKeyDef{references("category_id", "categories", "SET NULL")},
	},
	{
		Name: "doctors",
		Columns: []models.ColumnDef{
			id(), notNull(text("name")), text("specialty"), integer("experience_years"),
			float("consultation_fee"), text("image_url"),
		},
	},
	{
		Name:    "labs",
		Columns: []models.ColumnDef{id(), notNull(text("name")), text("city"), text("contact")},
	},
	{
		Name: "lab_tests",
		Columns: []models.ColumnDef{
			id(), notNull(text("name")), text("category"), float("price"), integer("lab_id"),
		},
		ForeignKeys: []models.ForeignKeyDef{references("lab_id", "labs", "SET NULL")},
	},
	{
		Name: "delivery_persons",
		Columns: []models.ColumnDef{
			id(), notNull(text("name")), text("phone"), text("vehicle_number"),
			withDefault(integer("is_active"), "1"),
		},
	},
	{
		Name: "recycle_requests",
		Columns: []models.ColumnDef{
			id(), text("facility_name"), text("phone"), text("address"), text("city"),
			text("pincode"), text("status"), createdAt(),
		},
	},

	{
		Name: "users",
		Columns: []models.ColumnDef{
			id(), notNull(text("name")), unique(text("email")), text("phone"),
			withDefault(text("role"), "'customer'"), createdAt(),
		},
	},

	// children of users
	{
		Name: "addresses",
		Columns: []models.ColumnDef{
			id(), notNull(integer("user_id")), text("line1"), text("city"), text("pincode"),
			withDefault(integer("is_default"), "0"),
		},
		ForeignKeys: []models.ForeignKeyDef{references("user_id", "users", "CASCADE")},
	},
	{
		Name: "orders",
		Columns: []models.ColumnDef{
			id(), notNull(integer("user_id")), withDefault(text("status"), "'pending'"),
			withDefault(float("total_amount"), "0"), createdAt(),
		},
		ForeignKeys: []models.ForeignKeyDef{references("user_id", "users", "CASCADE")},
	},
	{
		Name: "transactions",
		Columns: []models.ColumnDef{
			id(), notNull(integer("user_id")), integer("order_id"), text("type"), float("amount"),
			text("status"), createdAt(),
		},
		ForeignKeys: []models.ForeignKeyDef{
			references("user_id", "users", "CASCADE"),
			references("order_id", "orders", "SET NULL"),
		},
	},
	{
		Name: "reward_points",
		Columns: []models.ColumnDef{
			id(), notNull(unique(integer("user_id"))), withDefault(integer("points_balance"), "0"),
			text("updated_at"),
		},
		ForeignKeys: []models.ForeignKeyDef{references("user_id", "users", "CASCADE")},
	},

	{
		Name: "order_items",
		Columns: []models.ColumnDef{
			id(), notNull(integer("order_id")), notNull(integer("medicine_id")),
			notNull(integer("quantity")), notNull(float("price")),
		},
		ForeignKeys: []models.ForeignKeyDef{
			references("order_id", "orders", "CASCADE"),
			references("medicine_id", "medicines", "CASCADE"),
		},
	},
	{
		Name: "appointments",
		Columns: []models.ColumnDef{
			id(), notNull(integer("user_id")), notNull(integer("doctor_id")), text("scheduled_at"),
			text("status"),
		},
		ForeignKeys: []models.ForeignKeyDef{
			references("user_id", "users", "CASCADE"),
			references("doctor_id", "doctors", "CASCADE"),
		},
	},
	{
		Name: "lab_orders",
		Columns: []models.ColumnDef{
			id(), notNull(integer("user_id")), notNull(integer("lab_test_id")), text("scheduled_at"),
			text("status"),
		},
		ForeignKeys: []models.ForeignKeyDef{
			references("user_id", "users", "CASCADE"),
			references("lab_test_id", "lab_tests", "CASCADE"),
		},
	},
	{
		Name: "deliveries",
		Columns: []models.ColumnDef{
			id(), notNull(integer("order_id")), integer("delivery_person_id"),
			withDefault(text("status"), "'assigned'"), text("delivered_at"), createdAt(),
		},
		ForeignKeys: []models.ForeignKeyDef{
			references("order_id", "orders", "CASCADE"),
			references("delivery_person_id", "delivery_persons", "SET NULL"),
		},
	},

	{
		Name: "lab_results",
		Columns: []models.ColumnDef{
			id(), notNull(integer("lab_order_id")), text("result_summary"), text("report_url"),
			createdAt(),
		},
		ForeignKeys: []models.ForeignKeyDef{references("lab_order_id", "lab_orders", "CASCADE")},
	},
	{
		Name: "doctor_availability",
		Columns: []models.ColumnDef{
			id(), notNull(integer("doctor_id")), text("day_of_week"), text("start_time"),
			text("end_time"),
		},
		ForeignKeys: []models.ForeignKeyDef{references("doctor_id", "doctors", "CASCADE")},
	},
}

// AddedColumns are columns introduced after the first release. They are
// added to existing stores by the bootstrapper and are always nullable.
var AddedColumns = map[string][]models.ColumnDef{
	"users": {text("language"), text("currency"), text("password_hash")},
}

// addedColumnTables keeps migration order stable.
var addedColumnTables = []string{"users"}

// CheckOrder verifies that every foreign key points at a table created
// earlier in the list.
func CheckOrder(tables []models.TableDef) error {
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable != t.Name && !seen[fk.RefTable] {
				return fmt.Errorf("table %s references %s before it is created", t.Name, fk.RefTable)
			}
		}
		seen[t.Name] = true
	}
	return nil
}
