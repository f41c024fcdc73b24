package seed

import (
	"strings"
	"testing"

	"github.com/dreamware/graphd/pkg/graph"
	"github.com/dreamware/graphd/pkg/logging"
	"github.com/dreamware/graphd/pkg/service"
	"github.com/dreamware/graphd/pkg/storage"
	"github.com/dreamware/graphd/pkg/traversal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	mem := storage.NewMemoryStore()
	disk, err := storage.NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	mgr := storage.NewManager(mem, disk, 16, logging.New("test"))
	t.Cleanup(mgr.Close)
	return service.New(mgr, traversal.New(traversal.DefaultThreshold))
}

func TestEncodeDecodePropertiesRoundTrip(t *testing.T) {
	props := map[string]string{"name": "ada", "city": "london"}
	decoded := DecodeProperties(EncodeProperties(props))
	assert.Equal(t, props, decoded)
}

func TestDecodePropertiesEmptyString(t *testing.T) {
	assert.Equal(t, map[string]string{}, DecodeProperties(""))
}

func TestLoadNodesAddsEachRowWithExplicitID(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.CreateGraph("social"))

	csvData := "id,label,properties\n1,Person,name=ada&city=london\n2,Person,name=alan\n"
	count, err := LoadNodes(svc, "social", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	adjacency, err := svc.GetAdjacency("social")
	require.NoError(t, err)
	assert.NotNil(t, adjacency)

	_, err = svc.AddNode("social", 1, "Duplicate", nil)
	assert.Error(t, err)
}

func TestLoadEdgesConnectsExistingNodes(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.CreateGraph("social"))

	nodesCSV := "id,label,properties\n1,Person,\n2,Person,\n"
	_, err := LoadNodes(svc, "social", strings.NewReader(nodesCSV))
	require.NoError(t, err)

	edgesCSV := "id,label,from,to,properties\n1,knows,1,2,since=2020\n"
	count, err := LoadEdges(svc, "social", strings.NewReader(edgesCSV))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	relations, err := svc.GetRelations("social")
	require.NoError(t, err)
	require.Len(t, relations, 1)
	assert.Equal(t, "knows", relations[0].EdgeLabel)
	assert.Equal(t, "since=2020", EncodeProperties(map[string]string{"since": "2020"}))
}

func TestLoadEdgesMissingEndpointFails(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.CreateGraph("social"))

	edgesCSV := "id,label,from,to,properties\n1,knows,1,2,\n"
	_, err := LoadEdges(svc, "social", strings.NewReader(edgesCSV))
	assert.Error(t, err)
}

func TestLoadNodesRejectsBadHeader(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.CreateGraph("social"))
	_, err := LoadNodes(svc, "social", strings.NewReader("oops\n1,Person,\n"))
	assert.Error(t, err)
}

func TestWriteNodesAndLoadNodesRoundTrip(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.CreateGraph("social"))

	nodes := []graph.Node{
		{ID: 1, Label: "Person", Properties: map[string]string{"name": "ada"}},
		{ID: 2, Label: "Person", Properties: nil},
	}
	var buf strings.Builder
	require.NoError(t, WriteNodes(&buf, nodes))

	count, err := LoadNodes(svc, "social", strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWriteEdgesFormat(t *testing.T) {
	edges := []graph.Edge{
		{ID: 1, Label: "knows", From: 1, To: 2, Properties: map[string]string{"since": "2020"}},
	}
	var buf strings.Builder
	require.NoError(t, WriteEdges(&buf, edges))
	assert.Equal(t, "id,label,from,to,properties\n1,knows,1,2,since=2020\n", buf.String())
}
