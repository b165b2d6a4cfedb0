package veil

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/zoobzio/sentinel"
)

// Struct tags understood by Processor.
const (
	TagHide = "veil.hide"
	TagSeal = "veil.seal"
)

func init() {
	sentinel.Tag(TagHide)
	sentinel.Tag(TagSeal)
}

// Processor marshals values of type T and hides tagged fields inside
// variation selectors.
//
// Fields tagged `veil.hide:"<base>"` are replaced on Write by the base
// rune followed by their content as selectors, and restored on Read.
// Adding `veil.seal:"<algo>"` encrypts the content before it is hidden.
// Conceal and Reveal additionally hide the whole marshaled document
// behind a single base rune.
//
// Empty field values are written and read as empty. On Read, a tagged
// value that carries no selectors was never hidden and is kept as is,
// without opening any seal.
//
// Processors are safe for concurrent use. SetEncryptor may be called at
// any time to rotate keys. Validation occurs automatically on first
// operation; configure all required encryptors before then.
type Processor[T Cloner[T]] struct {
	codec Codec

	// Mutable configuration protected by mu
	mu           sync.RWMutex
	encryptors   map[EncryptAlgo]Encryptor
	documentSeal EncryptAlgo

	// Validation state (runs once on first operation)
	validateOnce sync.Once
	validateErr  error

	// Field plans (immutable after construction)
	fields []fieldPlan

	typeName string
}

// fieldPlan describes how to hide a single field.
type fieldPlan struct {
	index      []int       // reflect.Value.FieldByIndex access path
	name       string      // dotted field name for errors
	base       rune        // glyph the payload is hidden behind
	seal       EncryptAlgo // empty when the field is not sealed
	isBytes    bool        // true if field is []byte, false if string
	ptrIndices []int       // indices where pointer dereference is needed
	isSlice    bool        // true if field is []string
	isMap      bool        // true if field is map[K]string
}

// typeFieldPlans caches the field plans of one type.
type typeFieldPlans struct {
	typeName string
	fields   []fieldPlan
}

var planCache sync.Map // reflect.Type -> *typeFieldPlans

// ProcessorOption configures a Processor at construction.
type ProcessorOption func(*processorOptions)

type processorOptions struct {
	encryptors   map[EncryptAlgo]Encryptor
	documentSeal EncryptAlgo
}

// WithEncryptor registers an encryptor for algo.
func WithEncryptor(algo EncryptAlgo, enc Encryptor) ProcessorOption {
	return func(o *processorOptions) {
		o.encryptors[algo] = enc
	}
}

// WithDocumentSeal encrypts whole documents with algo in Conceal
// and decrypts them in Reveal.
func WithDocumentSeal(algo EncryptAlgo) ProcessorOption {
	return func(o *processorOptions) {
		o.documentSeal = algo
	}
}

// NewProcessor creates a new Processor for type T.
//
// Tags are validated here; an unknown seal algorithm or an unusable base
// glyph fails with ErrInvalidTag or ErrUnknownAlgorithm. Encryptors may
// be passed as options or registered later with SetEncryptor.
func NewProcessor[T Cloner[T]](codec Codec, opts ...ProcessorOption) (*Processor[T], error) {
	plans, err := getOrBuildPlans[T]()
	if err != nil {
		return nil, err
	}

	o := processorOptions{encryptors: make(map[EncryptAlgo]Encryptor)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.documentSeal != "" && !IsValidEncryptAlgo(o.documentSeal) {
		return nil, newConfigError(ErrUnknownAlgorithm, string(o.documentSeal), "")
	}

	p := &Processor[T]{
		codec:        codec,
		encryptors:   o.encryptors,
		documentSeal: o.documentSeal,
		fields:       plans.fields,
		typeName:     plans.typeName,
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), plans.typeName)
	return p, nil
}

// SetEncryptor registers an encryptor for the given algorithm.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor[T]) SetEncryptor(algo EncryptAlgo, enc Encryptor) *Processor[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.encryptors[algo] = enc
	return p
}

// Validate checks that every sealed field, and the document seal if
// configured, has a registered encryptor.
//
// Validation also runs automatically on first operation. Calling Validate
// explicitly allows catching configuration errors at startup.
func (p *Processor[T]) Validate() error {
	return p.ensureValidated()
}

// ensureValidated runs validation once and caches the result.
func (p *Processor[T]) ensureValidated() error {
	p.validateOnce.Do(func() {
		p.mu.RLock()
		defer p.mu.RUnlock()
		p.validateErr = p.validateCapabilities()
	})
	return p.validateErr
}

// validateCapabilities ensures all required encryptors are registered.
// Sealed fields need an encryptor unless T both hides and reveals itself,
// since either direction left to reflection opens or seals them.
func (p *Processor[T]) validateCapabilities() error {
	var zero T
	_, hasHideable := any(&zero).(Hideable)
	_, hasRevealable := any(&zero).(Revealable)

	if !hasHideable || !hasRevealable {
		for _, plan := range p.fields {
			if plan.seal == "" {
				continue
			}
			if _, ok := p.encryptors[plan.seal]; !ok {
				return newConfigError(ErrMissingEncryptor, string(plan.seal), plan.name)
			}
		}
	}

	if p.documentSeal != "" {
		if _, ok := p.encryptors[p.documentSeal]; !ok {
			return newConfigError(ErrMissingEncryptor, string(p.documentSeal), "")
		}
	}
	return nil
}

// getOrBuildPlans returns cached field plans for T, building them on first use.
func getOrBuildPlans[T Cloner[T]]() (*typeFieldPlans, error) {
	typ := reflect.TypeFor[T]()
	if cached, ok := planCache.Load(typ); ok {
		return cached.(*typeFieldPlans), nil
	}

	plans, err := buildFieldPlans[T]()
	if err != nil {
		return nil, err
	}

	actual, _ := planCache.LoadOrStore(typ, plans)
	return actual.(*typeFieldPlans), nil
}

// buildFieldPlans creates field plans for type T by scanning struct tags.
func buildFieldPlans[T Cloner[T]]() (*typeFieldPlans, error) {
	spec := sentinel.Scan[T]()
	plans := &typeFieldPlans{
		typeName: spec.TypeName,
	}

	if err := buildFieldPlansRecursive(plans, spec, nil, nil, ""); err != nil {
		return nil, err
	}
	return plans, nil
}

// buildFieldPlansRecursive recursively processes fields and nested structs.
func buildFieldPlansRecursive(plans *typeFieldPlans, spec sentinel.Metadata, parentIndex, ptrIndices []int, namePrefix string) error {
	for _, field := range spec.Fields {
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)
		fullName := field.Name
		if namePrefix != "" {
			fullName = namePrefix + "." + field.Name
		}

		// Handle nested structs
		if field.Kind == sentinel.KindStruct {
			nestedSpec := scanNestedType(field.ReflectType)
			if nestedSpec != nil {
				if err := buildFieldPlansRecursive(plans, *nestedSpec, fullIndex, ptrIndices, fullName); err != nil {
					return err
				}
			}
			continue
		}

		// Handle pointer to struct
		if field.Kind == sentinel.KindPointer && field.ReflectType.Elem().Kind() == reflect.Struct {
			nestedSpec := scanNestedType(field.ReflectType.Elem())
			if nestedSpec != nil {
				newPtrIndices := append(append([]int{}, ptrIndices...), len(fullIndex)-1)
				if err := buildFieldPlansRecursive(plans, *nestedSpec, fullIndex, newPtrIndices, fullName); err != nil {
					return err
				}
			}
			continue
		}

		hide, hidden := field.Tags[TagHide]
		seal, sealed := field.Tags[TagSeal]
		if !hidden {
			if sealed {
				return newConfigError(ErrInvalidTag, seal, fullName)
			}
			continue
		}

		base, err := ParseBase(hide)
		if err != nil {
			return newConfigError(ErrInvalidTag, hide, fullName)
		}
		if sealed && !IsValidEncryptAlgo(EncryptAlgo(seal)) {
			return newConfigError(ErrUnknownAlgorithm, seal, fullName)
		}

		rt := field.ReflectType
		isString := rt.Kind() == reflect.String
		isBytes := rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8
		isStringSlice := rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.String
		isStringMap := rt.Kind() == reflect.Map && rt.Elem().Kind() == reflect.String
		if !isString && !isBytes && !isStringSlice && !isStringMap {
			return newConfigError(ErrInvalidTag, hide, fullName)
		}

		plans.fields = append(plans.fields, fieldPlan{
			index:      fullIndex,
			name:       fullName,
			base:       base,
			seal:       EncryptAlgo(seal),
			isBytes:    isBytes,
			ptrIndices: ptrIndices,
			isSlice:    isStringSlice,
			isMap:      isStringMap,
		})
	}

	return nil
}

// scanNestedType scans a nested struct type and returns its metadata.
func scanNestedType(rt reflect.Type) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}

	if rt.Kind() != reflect.Struct {
		return nil
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseVeilTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return &spec
}

// parseVeilTags extracts veil tags from a struct tag.
func parseVeilTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, name := range []string{TagHide, TagSeal} {
		if val, ok := tag.Lookup(name); ok {
			tags[name] = val
		}
	}
	return tags
}

// Write hides tagged fields and marshals the result.
// The caller's value is not modified.
func (p *Processor[T]) Write(ctx context.Context, obj *T) ([]byte, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}

	start := time.Now()
	emitWriteStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var retData []byte
	var counts fieldCounts
	defer func() {
		emitWriteComplete(ctx, p.codec.ContentType(), p.typeName,
			len(retData), time.Since(start), counts.hidden, counts.sealed, retErr)
	}()

	retData, counts, retErr = p.marshal(obj)
	return retData, retErr
}

// Read unmarshals data and reveals tagged fields.
func (p *Processor[T]) Read(ctx context.Context, data []byte) (*T, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}

	start := time.Now()
	emitReadStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var counts fieldCounts
	defer func() {
		emitReadComplete(ctx, p.codec.ContentType(), p.typeName,
			len(data), time.Since(start), counts.hidden, counts.sealed, retErr)
	}()

	obj, counts, err := p.unmarshal(data)
	if err != nil {
		retErr = err
		return nil, err
	}
	return obj, nil
}

// Conceal writes obj and hides the whole document behind base.
// The result renders as base alone. base must be a valid rune outside
// the selector ranges.
func (p *Processor[T]) Conceal(ctx context.Context, base rune, obj *T) (string, error) {
	if err := p.ensureValidated(); err != nil {
		return "", err
	}
	if err := CheckBase(base); err != nil {
		return "", err
	}

	start := time.Now()
	emitConcealStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var text string
	var selectors int
	defer func() {
		emitConcealComplete(ctx, p.codec.ContentType(), p.typeName,
			len(text), selectors, time.Since(start), retErr)
	}()

	doc, _, err := p.marshal(obj)
	if err != nil {
		retErr = err
		return "", err
	}

	if p.documentSeal != "" {
		p.mu.RLock()
		enc := p.encryptors[p.documentSeal]
		p.mu.RUnlock()

		doc, err = enc.Encrypt(doc)
		if err != nil {
			retErr = newTransformError(ErrEncrypt, "seal", "document", err)
			return "", retErr
		}
	}

	selectors = len(doc)
	text = Encode(base, doc)
	return text, nil
}

// Reveal extracts a document hidden by Conceal and reads it.
// Text carrying no selectors fails with ErrNoPayload.
func (p *Processor[T]) Reveal(ctx context.Context, text string) (*T, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}

	start := time.Now()
	emitRevealStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	doc := Decode(text)
	defer func() {
		emitRevealComplete(ctx, p.codec.ContentType(), p.typeName,
			len(text), len(doc), time.Since(start), retErr)
	}()

	if len(doc) == 0 {
		retErr = ErrNoPayload
		return nil, retErr
	}

	if p.documentSeal != "" {
		p.mu.RLock()
		enc := p.encryptors[p.documentSeal]
		p.mu.RUnlock()

		opened, err := enc.Decrypt(doc)
		if err != nil {
			retErr = newTransformError(ErrDecrypt, "open", "document", err)
			return nil, retErr
		}
		doc = opened
	}

	obj, _, err := p.unmarshal(doc)
	if err != nil {
		retErr = err
		return nil, err
	}
	return obj, nil
}

// fieldCounts tallies the field values a Write or Read transformed.
type fieldCounts struct {
	hidden int
	sealed int
}

// marshal clones obj, hides its fields and encodes it with the codec.
func (p *Processor[T]) marshal(obj *T) ([]byte, fieldCounts, error) {
	var counts fieldCounts
	if obj == nil {
		data, err := p.codec.Marshal(nil)
		if err != nil {
			return nil, counts, newCodecError(ErrMarshal, err)
		}
		return data, counts, nil
	}

	// Clone to avoid mutating original
	clone := (*obj).Clone()

	p.mu.RLock()
	if h, ok := any(&clone).(Hideable); ok {
		err := h.Hide(p.encryptors)
		p.mu.RUnlock()
		if err != nil {
			return nil, counts, fmt.Errorf("hide: %w", err)
		}
		counts, _ = p.transformFields(&clone, carriesPayload)
	} else {
		var err error
		counts, err = p.applyHide(&clone)
		p.mu.RUnlock()
		if err != nil {
			return nil, counts, fmt.Errorf("hide: %w", err)
		}
	}

	data, err := p.codec.Marshal(&clone)
	if err != nil {
		return nil, counts, newCodecError(ErrMarshal, err)
	}
	return data, counts, nil
}

// unmarshal decodes data with the codec and reveals its fields.
func (p *Processor[T]) unmarshal(data []byte) (*T, fieldCounts, error) {
	var counts fieldCounts
	var obj T
	if err := p.codec.Unmarshal(data, &obj); err != nil {
		return nil, counts, newCodecError(ErrUnmarshal, err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if r, ok := any(&obj).(Revealable); ok {
		counts, _ = p.transformFields(&obj, carriesPayload)
		if err := r.Reveal(p.encryptors); err != nil {
			return nil, counts, fmt.Errorf("reveal: %w", err)
		}
		return &obj, counts, nil
	}

	counts, err := p.applyReveal(&obj)
	if err != nil {
		return nil, counts, fmt.Errorf("reveal: %w", err)
	}
	return &obj, counts, nil
}

// hideValue seals (when configured) and encodes one field value.
// Empty values stay empty.
func (p *Processor[T]) hideValue(plan fieldPlan, value []byte) ([]byte, bool, error) {
	if len(value) == 0 {
		return value, false, nil
	}
	if plan.seal != "" {
		sealed, err := p.encryptors[plan.seal].Encrypt(value)
		if err != nil {
			return nil, false, newTransformError(ErrEncrypt, "seal", plan.name, err)
		}
		value = sealed
	}
	return AppendEncoded(nil, plan.base, value), true, nil
}

// revealValue decodes and opens (when configured) one field value.
// A value carrying no selectors was never hidden and is kept as is.
func (p *Processor[T]) revealValue(plan fieldPlan, value []byte) ([]byte, bool, error) {
	payload := DecodeBytes(value)
	if len(payload) == 0 {
		return value, false, nil
	}
	if plan.seal != "" {
		opened, err := p.encryptors[plan.seal].Decrypt(payload)
		if err != nil {
			return nil, false, newTransformError(ErrDecrypt, "open", plan.name, err)
		}
		payload = opened
	}
	return payload, true, nil
}

// carriesPayload leaves value untouched and reports whether it holds
// selectors. It counts fields on types that hide or reveal themselves.
func carriesPayload(_ fieldPlan, value []byte) ([]byte, bool, error) {
	return value, len(DecodeBytes(value)) > 0, nil
}

// applyHide hides tagged fields via reflection.
func (p *Processor[T]) applyHide(obj *T) (fieldCounts, error) {
	return p.transformFields(obj, p.hideValue)
}

// applyReveal reveals tagged fields via reflection.
func (p *Processor[T]) applyReveal(obj *T) (fieldCounts, error) {
	return p.transformFields(obj, p.revealValue)
}

// transformFields applies fn to every planned field value of obj and
// counts the values fn reports as transformed.
func (p *Processor[T]) transformFields(obj *T, fn func(fieldPlan, []byte) ([]byte, bool, error)) (fieldCounts, error) {
	var counts fieldCounts
	rv := reflect.ValueOf(obj).Elem()

	tally := func(plan fieldPlan, transformed bool) {
		if !transformed {
			return
		}
		counts.hidden++
		if plan.seal != "" {
			counts.sealed++
		}
	}

	for _, plan := range p.fields {
		field, ok := p.getField(rv, plan)
		if !ok {
			continue
		}

		// Handle slice of strings
		if plan.isSlice {
			for i := 0; i < field.Len(); i++ {
				elem := field.Index(i)
				if !elem.CanSet() {
					continue
				}
				out, transformed, err := fn(plan, []byte(elem.String()))
				if err != nil {
					return counts, fmt.Errorf("%s[%d]: %w", plan.name, i, err)
				}
				elem.SetString(string(out))
				tally(plan, transformed)
			}
			continue
		}

		// Handle map of strings
		if plan.isMap {
			iter := field.MapRange()
			for iter.Next() {
				k, v := iter.Key(), iter.Value()
				out, transformed, err := fn(plan, []byte(v.String()))
				if err != nil {
					return counts, fmt.Errorf("%s[%v]: %w", plan.name, k.Interface(), err)
				}
				field.SetMapIndex(k, reflect.ValueOf(string(out)).Convert(field.Type().Elem()))
				tally(plan, transformed)
			}
			continue
		}

		// Handle scalar string or []byte
		if !field.CanSet() {
			continue
		}

		var value []byte
		if plan.isBytes {
			value = field.Bytes()
		} else {
			value = []byte(field.String())
		}

		out, transformed, err := fn(plan, value)
		if err != nil {
			return counts, err
		}

		if plan.isBytes {
			field.SetBytes(out)
		} else {
			field.SetString(string(out))
		}
		tally(plan, transformed)
	}

	return counts, nil
}

// getField navigates a field path, dereferencing pointers as needed.
func (p *Processor[T]) getField(rv reflect.Value, plan fieldPlan) (reflect.Value, bool) {
	if len(plan.ptrIndices) == 0 {
		return rv.FieldByIndex(plan.index), true
	}

	current := rv
	ptrSet := make(map[int]bool, len(plan.ptrIndices))
	for _, idx := range plan.ptrIndices {
		ptrSet[idx] = true
	}

	for i, idx := range plan.index {
		current = current.Field(idx)

		if ptrSet[i] {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
	}

	return current, true
}
