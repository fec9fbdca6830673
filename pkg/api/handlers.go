package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/location"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

const maxBodyBytes = 1 << 20

// Content types accepted and produced for encoded addresses.
const (
	ContentTypeXML    = "application/xml"
	ContentTypeBinary = "application/octet-stream"
)

// NodeResponse describes one node and the rectangle it covers.
type NodeResponse struct {
	ID       split.NodeID      `json:"id"`
	Kind     string            `json:"kind"`
	Parent   split.NodeID      `json:"parent"`
	Rect     geom.Rect         `json:"rect"`
	Tokens   []string          `json:"tokens,omitempty"`
	Contents []split.ContentID `json:"contents,omitempty"`
	Selected split.ContentID   `json:"selected,omitempty"`

	Orientation string       `json:"orientation,omitempty"`
	Divider     float64      `json:"divider,omitempty"`
	Left        split.NodeID `json:"left,omitempty"`
	Right       split.NodeID `json:"right,omitempty"`
}

// TreeResponse is the body of GET /tree.
type TreeResponse struct {
	Name        string         `json:"name,omitempty"`
	Bounds      geom.Rect      `json:"bounds"`
	Fingerprint string         `json:"fingerprint"`
	Root        split.NodeID   `json:"root"`
	Nodes       []NodeResponse `json:"nodes"`
}

// ReplayResponse is the body of POST /replay. Node is the deepest node the
// recorded directions reach in the live tree and Remaining the steps that
// could not be followed from there.
type ReplayResponse struct {
	Placement address.Placement `json:"placement"`
	Node      split.NodeID      `json:"node"`
	Remaining []address.Step    `json:"remaining,omitempty"`
}

// PlaceholderResponse is the body of GET /placeholders/{token}.
type PlaceholderResponse struct {
	Token string       `json:"token"`
	Node  NodeResponse `json:"node"`
}

func newNodeResponse(n split.NodeInfo, r geom.Rect) NodeResponse {
	resp := NodeResponse{
		ID:     n.ID,
		Kind:   n.Kind.String(),
		Parent: n.Parent,
		Rect:   r,
		Tokens: lo.Map(n.Placeholders, func(t placeholder.Token, _ int) string { return t.String() }),
	}
	switch n.Kind {
	case split.KindNode:
		resp.Orientation = n.Orientation.String()
		resp.Divider = n.Divider
		resp.Left, resp.Right = n.Left, n.Right
	case split.KindLeaf:
		resp.Contents = n.Slot.Contents
		resp.Selected = n.Slot.Selected
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	nodes := s.tree.Nodes()
	rects := s.tree.RectanglesOf(lo.Map(nodes, func(n split.NodeInfo, _ int) split.NodeID { return n.ID })...)
	writeJSON(w, http.StatusOK, TreeResponse{
		Name:        s.tree.Name(),
		Bounds:      s.tree.Bounds(),
		Fingerprint: fmt.Sprintf("%016x", s.tree.Fingerprint()),
		Root:        s.tree.Root(),
		Nodes:       lo.Map(nodes, func(n split.NodeInfo, _ int) NodeResponse { return newNodeResponse(n, rects[n.ID]) }),
	})
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	info, rect, err := s.node(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newNodeResponse(info, rect))
}

func (s *Server) node(r *http.Request) (split.NodeInfo, geom.Rect, error) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return split.NodeInfo{}, geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", raw)
	}
	id := split.NodeID(n)
	info, ok := s.tree.Info(id)
	if !ok {
		return split.NodeInfo{}, geom.Rect{}, errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	rect, err := s.tree.RectangleOf(id)
	if err != nil {
		return split.NodeInfo{}, geom.Rect{}, errors.Wrap(errors.ErrCodeNotFound, err, "node %d", id)
	}
	return info, rect, nil
}

// handleAddress writes the address of a node. The format query parameter
// selects xml (default), binary or json; version picks an older encoding.
func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	info, _, err := s.node(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	addr, err := address.FromRoot(s.tree, info.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	version := address.Current
	if v := r.URL.Query().Get("version"); v != "" {
		if version, err = address.ParseVersion(v); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "xml":
		var buf bytes.Buffer
		if err := address.EncodeXML(&buf, addr, version); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", ContentTypeXML)
		_, _ = buf.WriteTo(w)
	case "binary":
		var buf bytes.Buffer
		if err := address.WriteBinary(&buf, addr, version); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", ContentTypeBinary)
		_, _ = buf.WriteTo(w)
	case "json":
		writeJSON(w, http.StatusOK, addr)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown address format %q", format))
	}
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var (
		addr address.Address
		err  error
	)
	if isBinary(r) {
		addr, err = address.ReadBinary(body)
	} else {
		addr, err = address.DecodeXML(body)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := ReplayResponse{Placement: addr.Replay(s.tree), Node: split.NoID}
	if node, rest, err := addr.Resolve(s.tree); err == nil {
		resp.Node, resp.Remaining = node, rest
	}
	s.logger.Debug("replayed address", "steps", addr.Len(), "tier", resp.Placement.Tier)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var prop *location.Property
	if isBinary(r) {
		p, err := location.ReadBinary(body)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		prop = p
	} else {
		prop = new(location.Property)
		if err := xml.NewDecoder(body).Decode(prop); err != nil {
			if errors.GetCode(err) == "" {
				err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode property")
			}
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, location.Resolve(s.tree, prop))
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	tok, err := placeholder.ParseToken(chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, ok := s.tree.Locate(tok)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "placeholder %s not found", tok))
		return
	}
	info, ok := s.tree.Info(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "placeholder %s not found", tok))
		return
	}
	rect, err := s.tree.RectangleOf(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PlaceholderResponse{Token: tok.String(), Node: newNodeResponse(info, rect)})
}

func isBinary(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), ContentTypeBinary)
}
