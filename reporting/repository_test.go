package reporting

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildRouteQueryOutbound(t *testing.T) {
	filter := RouteFilter{OriginID: "L1", DestinationID: "L2", Leg: LegOutbound}

	query, args, err := buildRouteQuery(filter, 25)
	if err != nil {
		t.Fatalf("buildRouteQuery() вернул ошибку: %v", err)
	}

	if !strings.Contains(query, "WHERE id_localidade_ida_origem = ? AND id_localidade_ida_destino = ?") {
		t.Errorf("запрос не фильтрует по плечу ida: %s", query)
	}
	if strings.Contains(query, "id_viacao_ida = ?") {
		t.Errorf("запрос фильтрует по перевозчику без условия: %s", query)
	}
	if !strings.HasSuffix(query, "ORDER BY data_compra DESC, id_compra LIMIT ?") {
		t.Errorf("запрос не упорядочен по дате: %s", query)
	}

	wantArgs := []interface{}{"L1", "L2", 25}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Errorf("аргументы не совпадают (-want +got):\n%s", diff)
	}
}

func TestBuildRouteQueryWithCarrier(t *testing.T) {
	filter := RouteFilter{OriginID: "L1", DestinationID: "L2", CarrierID: "V9"}

	query, args, err := buildRouteQuery(filter, 10)
	if err != nil {
		t.Fatalf("buildRouteQuery() вернул ошибку: %v", err)
	}

	// Пустое плечо означает ida
	if !strings.Contains(query, "AND id_viacao_ida = ?") {
		t.Errorf("запрос не фильтрует по перевозчику: %s", query)
	}

	wantArgs := []interface{}{"L1", "L2", "V9", 10}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Errorf("аргументы не совпадают (-want +got):\n%s", diff)
	}
}

func TestBuildRouteQueryReturnLeg(t *testing.T) {
	filter := RouteFilter{OriginID: "L3", DestinationID: "L4", CarrierID: "V2", Leg: LegReturn}

	query, args, err := buildRouteQuery(filter, 5)
	if err != nil {
		t.Fatalf("buildRouteQuery() вернул ошибку: %v", err)
	}

	if !strings.Contains(query, "WHERE id_localidade_retorno_origem = ? AND id_localidade_retorno_destino = ? AND id_viacao_retorno = ?") {
		t.Errorf("запрос не фильтрует по плечу retorno: %s", query)
	}

	wantArgs := []interface{}{"L3", "L4", "V2", 5}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Errorf("аргументы не совпадают (-want +got):\n%s", diff)
	}
}

func TestBuildRouteQueryValidation(t *testing.T) {
	tests := []struct {
		name   string
		filter RouteFilter
	}{
		{"без происхождения", RouteFilter{DestinationID: "L2"}},
		{"без назначения", RouteFilter{OriginID: "L1"}},
		{"неизвестное плечо", RouteFilter{OriginID: "L1", DestinationID: "L2", Leg: "volta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := buildRouteQuery(tt.filter, 10); err == nil {
				t.Errorf("buildRouteQuery(%+v) не вернул ошибку", tt.filter)
			}
		})
	}
}
