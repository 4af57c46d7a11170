package services

import (
	"context"
	"fmt"
	"strings"

	"genricycle/internal/database"
	"genricycle/internal/models"
	"genricycle/internal/utils"
)

const (
	maxJunctionTableColumns = 6
	minJunctionTableFKs     = 2
)

type SchemaService struct {
	backend database.Backend
	conn    database.Conn
}

func NewSchemaService(backend database.Backend, conn database.Conn) *SchemaService {
	return &SchemaService{backend: backend, conn: conn}
}

// Summary describes every table of the active store.
func (s *SchemaService) Summary(ctx context.Context) (*models.Report, error) {
	report, err := s.backend.Introspect(ctx, s.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect database: %w", err)
	}
	return report, nil
}

// VisualizeSchema renders the store's tables and foreign keys as a Mermaid
// ER diagram.
func (s *SchemaService) VisualizeSchema(ctx context.Context) (string, error) {
	report, err := s.Summary(ctx)
	if err != nil {
		return "", err
	}
	return GenerateSchemaVisualization(report), nil
}

func GenerateSchemaVisualization(report *models.Report) string {
	return generateMermaid(report, buildRelationships(report))
}

func buildRelationships(report *models.Report) []models.Relationship {
	var relationships []models.Relationship
	junctionTables := detectJunctionTables(report)

	for _, name := range report.Tables {
		table := report.Summary[name]

		if junctionTables[name] {
			for i := 0; i < len(table.ForeignKeys); i++ {
				for j := i + 1; j < len(table.ForeignKeys); j++ {
					relationships = append(relationships, models.Relationship{
						FromTable: table.ForeignKeys[i].Table,
						ToTable:   table.ForeignKeys[j].Table,
						Type:      "}o--o{",
					})
				}
			}
			continue
		}

		for _, fk := range table.ForeignKeys {
			relationships = append(relationships, models.Relationship{
				FromTable: name,
				ToTable:   fk.Table,
				Type:      "||--o{",
			})
		}
	}
	return relationships
}

// detectJunctionTables finds tables whose primary key is made of at least two
// foreign keys and little else.
func detectJunctionTables(report *models.Report) map[string]bool {
	junctionTables := make(map[string]bool)
	for _, name := range report.Tables {
		table := report.Summary[name]
		pks := table.PrimaryKeys()
		if len(table.ForeignKeys) < minJunctionTableFKs ||
			len(pks) < minJunctionTableFKs ||
			len(table.Columns) > maxJunctionTableColumns {
			continue
		}

		fkCountInPK := 0
		allFKsInPK := true
		for _, fk := range table.ForeignKeys {
			if utils.Contains(pks, fk.From) {
				fkCountInPK++
			} else {
				allFKsInPK = false
			}
		}
		if allFKsInPK && fkCountInPK >= minJunctionTableFKs {
			junctionTables[name] = true
		}
	}
	return junctionTables
}

func generateMermaid(report *models.Report, relationships []models.Relationship) string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	if len(relationships) > 0 {
		seen := make(map[string]bool)
		for _, rel := range relationships {
			key := fmt.Sprintf("%s:%s:%s", rel.FromTable, rel.Type, rel.ToTable)
			if seen[key] {
				continue
			}
			seen[key] = true

			// Mermaid requires a label, an empty one hides it
			sb.WriteString(fmt.Sprintf("    %s %s %s : \"\"\n",
				strings.ToUpper(rel.ToTable),
				rel.Type,
				strings.ToUpper(rel.FromTable)))
		}
		sb.WriteString("\n")
	}

	for _, name := range report.Tables {
		table := report.Summary[name]
		pks := table.PrimaryKeys()
		sb.WriteString(fmt.Sprintf("    %s {\n", strings.ToUpper(name)))

		for _, col := range table.Columns {
			annotations := ""
			if utils.Contains(pks, col.Name) {
				annotations = " PK"
			}
			if isForeignKey(table.ForeignKeys, col.Name) {
				annotations += " FK"
			}
			sb.WriteString(fmt.Sprintf("        %s %s%s\n",
				simplifyDataType(col.Type),
				col.Name,
				annotations))
		}

		sb.WriteString("    }\n\n")
	}

	return sb.String()
}

// simplifyDataType maps catalog type names from either engine to short
// Mermaid attribute types.
func simplifyDataType(dataType string) string {
	dt := strings.ToLower(dataType)

	switch {
	case dt == "integer", dt == "int":
		return "int"
	case dt == "bigint":
		return "bigint"
	case dt == "text", strings.HasPrefix(dt, "character varying"):
		return "text"
	case strings.HasPrefix(dt, "timestamp with time zone"):
		return "timestamptz"
	case strings.HasPrefix(dt, "timestamp"):
		return "timestamp"
	case dt == "real":
		return "real"
	case dt == "double precision":
		return "double"
	case dt == "boolean":
		return "boolean"
	case dt == "":
		return "any"
	default:
		return strings.ReplaceAll(dt, " ", "_")
	}
}

func isForeignKey(fks []models.ForeignKey, colName string) bool {
	for _, fk := range fks {
		if fk.From == colName {
			return true
		}
	}
	return false
}
